// Package mapview builds the payload the tile map widget draws: markers, the
// anchor, the optional distance line and the camera.
package mapview

// TileLayer is one selectable base map.
type TileLayer struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

// DefaultLayers are the base maps offered by the dashboard. The first one is
// the session default.
func DefaultLayers() []TileLayer {
	return []TileLayer{
		{
			Name:        "Esri World Imagery",
			URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
			Attribution: "Tiles © Esri — Source: Esri, Maxar, Earthstar Geographics, and the GIS User Community",
		},
		{
			Name:        "CartoDB Positron",
			URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
			Attribution: "© OpenStreetMap contributors © CARTO",
		},
		{
			Name:        "OpenStreetMap",
			URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: "© OpenStreetMap contributors",
		},
	}
}

// LayerNames returns the names of layers in order.
func LayerNames(layers []TileLayer) []string {
	names := make([]string, 0, len(layers))
	for _, l := range layers {
		names = append(names, l.Name)
	}
	return names
}

// FindLayer returns the layer called name, falling back to the first layer.
func FindLayer(layers []TileLayer, name string) TileLayer {
	for _, l := range layers {
		if l.Name == name {
			return l
		}
	}
	if len(layers) > 0 {
		return layers[0]
	}
	return TileLayer{}
}
