package bodyshape

var descriptions = map[Shape]string{
	Hourglass:        "Your shoulders and hips are well-balanced with a beautifully defined waist. This classic silhouette suits structured pieces that highlight your natural curves.",
	Pear:             "Your hips are wider than your shoulders, creating an elegant lower-body curve. Balance your proportions with attention-drawing tops and flowing bottoms.",
	Apple:            "You carry weight around your midsection with slimmer legs. Empire waists and V-necklines work beautifully to elongate your silhouette.",
	Rectangle:        "Your shoulders, waist, and hips are similar in width, creating a streamlined look. Create curves with belted pieces and layered textures.",
	InvertedTriangle: "Your shoulders are broader than your hips with a strong upper body. Balance your proportions with volume in the lower half and simple necklines.",
}

// Describe returns the styling paragraph for a shape, or "" for an unknown label.
func Describe(s Shape) string {
	return descriptions[s]
}
