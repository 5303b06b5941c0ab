package contour

import (
	"math"

	"github.com/chazu/swarf/pkg/heightfield"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Kinds of contour ring.
const (
	KindPocket = "pocket" // encloses cut material
	KindIsland = "island" // encloses uncut material inside a cut
)

// Kind classifies a ring by its winding.
func Kind(r orb.Ring) string {
	if r.Orientation() == orb.CW {
		return KindIsland
	}
	return KindPocket
}

// FeatureCollection exports the contours at each level as GeoJSON
// polygons. Every feature carries its level ("z"), its planar area and
// its kind. Exterior rings are wound counter-clockwise as GeoJSON expects.
func FeatureCollection(f *heightfield.Field, levels ...float64) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	id := 0
	for _, z := range levels {
		for _, ring := range Collect(f, z) {
			kind := Kind(ring)
			if kind == KindIsland {
				ring = ring.Clone()
				ring.Reverse()
			}
			feat := geojson.NewFeature(orb.Polygon{ring})
			feat.ID = id
			feat.Properties["z"] = z
			feat.Properties["area"] = math.Abs(planar.Area(ring))
			feat.Properties["kind"] = kind
			fc.Append(feat)
			id++
		}
	}
	return fc
}
