package manager

const MaxSkillLevel = 5

// Skills are the three planetology skill levels of a capsuleer.
type Skills struct {
	Planetology         int `json:"planetology"`
	AdvancedPlanetology int `json:"advanced_planetology"`
	ExpertPlanetology   int `json:"expert_planetology"`
}

// Clamp limits every level to 0..MaxSkillLevel.
func (s Skills) Clamp() Skills {
	return Skills{
		Planetology:         clampLevel(s.Planetology),
		AdvancedPlanetology: clampLevel(s.AdvancedPlanetology),
		ExpertPlanetology:   clampLevel(s.ExpertPlanetology),
	}
}

func clampLevel(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxSkillLevel {
		return MaxSkillLevel
	}
	return v
}

type Capsuleer struct {
	Name   string `json:"name"`
	Skills Skills `json:"skills"`
}

func NewCapsuleer(name string, skills Skills) Capsuleer {
	return Capsuleer{Name: name, Skills: skills.Clamp()}
}

// Outpost is a harvesting base deployed in a solar system.
type Outpost struct {
	Name      string `json:"name"`
	System    string `json:"system"`
	Planets   int    `json:"planets"`
	Arrays    int    `json:"arrays"`
	Capsuleer string `json:"capsuleer"`
}
