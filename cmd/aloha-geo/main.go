// Command aloha-geo converts a node's (lat, lon, origin-lat, origin-lon)
// into the planar meters a topology file's x/y fields expect. It mirrors
// the teacher's single-purpose cmd/samoyed-ll2utm coordinate tool.
package main

import (
	"fmt"
	"os"
	"strconv"

	aloha "github.com/nicolopomini/aloha-sim/src"
)

func main() {
	if len(os.Args) != 5 {
		usage()
		os.Exit(1)
	}

	lat, errLat := strconv.ParseFloat(os.Args[1], 64)
	lon, errLon := strconv.ParseFloat(os.Args[2], 64)
	originLat, errOLat := strconv.ParseFloat(os.Args[3], 64)
	originLon, errOLon := strconv.ParseFloat(os.Args[4], 64)
	if errLat != nil || errLon != nil || errOLat != nil || errOLon != nil {
		usage()
		os.Exit(1)
	}

	p, err := aloha.GeodeticToPlanar(lat, lon, originLat, originLon)
	if err != nil {
		fmt.Printf("conversion failed:\n%s\n", err)
		os.Exit(1)
	}

	fmt.Printf("x = %.3f m, y = %.3f m (relative to origin %g, %g)\n", p.X, p.Y, originLat, originLon)
}

func usage() {
	fmt.Println("Latitude/longitude to topology planar meters")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("\taloha-geo  lat  lon  origin-lat  origin-lon")
	fmt.Println()
	fmt.Println("Example:")
	fmt.Println("\taloha-geo 42.662139 -71.365553 42.660000 -71.360000")
}
