package styleflow

// Stage is the progress of one style-guide run.
type Stage int

const (
	StageIdle Stage = iota
	StageAnalyzing
	StageGeneratingText
	StageGeneratingImages
	StageDone
	StageFailed
)

type stageCopy struct {
	name        string
	title       string
	description string
}

var stages = map[Stage]stageCopy{
	StageIdle:             {name: "idle"},
	StageAnalyzing:        {name: "analyzing", title: "Analyzing Your Measurements", description: "Determining your unique body shape..."},
	StageGeneratingText:   {name: "generating-text", title: "Crafting Your Style Guide", description: "Our AI stylist is curating personalized recommendations..."},
	StageGeneratingImages: {name: "generating-images", title: "Visualizing Your Looks", description: "Creating stunning outfit visualizations just for you..."},
	StageDone:             {name: "done", title: "Your Style Guide Is Ready"},
	StageFailed:           {name: "failed", title: "Something Went Wrong"},
}

func (s Stage) String() string {
	if c, ok := stages[s]; ok {
		return c.name
	}
	return "unknown"
}

// Title is the headline shown while the stage is active.
func (s Stage) Title() string { return stages[s].title }

// Description is the supporting line shown under Title.
func (s Stage) Description() string { return stages[s].description }

// InProgress reports whether the stage is one of the three loading stages.
func (s Stage) InProgress() bool {
	return s == StageAnalyzing || s == StageGeneratingText || s == StageGeneratingImages
}
