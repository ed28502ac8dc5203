package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/system.txt
	systemPrompt string
	//go:embed prompts/recommendation.txt
	recommendationPrompt string
	//go:embed prompts/image_elegant.txt
	imageElegantPrompt string
	//go:embed prompts/image_casual.txt
	imageCasualPrompt string
	//go:embed prompts/image_evening.txt
	imageEveningPrompt string
)

// ImageLooks names the outfit images, in the order ImagePrompts returns them.
var ImageLooks = []string{"elegant", "casual", "evening"}

// SystemPrompt returns the stylist system message.
func SystemPrompt() string {
	return strings.TrimSpace(systemPrompt)
}

// RecommendationPrompt fills the text prompt with gender and body shape as given.
func RecommendationPrompt(gender, bodyShape string) string {
	return render(recommendationPrompt, gender, bodyShape)
}

// ImagePrompts returns one prompt per look, using lowercased gender and body shape.
func ImagePrompts(gender, bodyShape string) []string {
	g, s := strings.ToLower(gender), strings.ToLower(bodyShape)
	return []string{
		render(imageElegantPrompt, g, s),
		render(imageCasualPrompt, g, s),
		render(imageEveningPrompt, g, s),
	}
}

func render(tmpl, gender, bodyShape string) string {
	r := strings.NewReplacer("{{GENDER}}", gender, "{{BODY_SHAPE}}", bodyShape)
	return strings.TrimSpace(r.Replace(tmpl))
}
