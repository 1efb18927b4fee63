package mapfile

// DefaultMapfile is written to a mapfile path that does not exist yet.
// It declares a single WGS84 map rendering PNG images with a WMS metadata
// block whose wms_onlineresource is filled in when the map is created.
const DefaultMapfile = `MAP
    NAME "default"
    DEBUG off

    MAXSIZE 2600
    SIZE 1920 1080
    UNITS meters
    EXTENT -180.0000 -90.0000 180.0000 90.0000

    # FONTSET "/path/to/fontset"
    # SYMBOLSET "/path/to/symbolset"

    PROJECTION
    	"init=epsg:4326"
    END

    IMAGECOLOR 255 255 255
    IMAGETYPE PNG
  
    WEB
        IMAGEPATH '/tmp/'
        IMAGEURL '/tmp/'

        METADATA
        	"wms_srs" "epsg:4326"
			"wms_name" "default"
			"wms_server_version" "1.1.1"
			"wms_format" "image/png"
			"wms_title" "default"
			"wms_onlineresource" ""
			"wms_srs" "EPSG:4326"
			"ows_enable_request" "*"
        END
        TEMPLATE "./template.html"
    END
END`

// DefaultTemplate is written to a template path that does not exist yet.
// MapServer substitutes the [img] token with the rendered image URL.
const DefaultTemplate = "<!-- MapServer Template -->\n<img src=\"[img]\">"
