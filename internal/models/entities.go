package models

// Resource names a remote collection on the search API
type Resource string

const (
	ResourceCreatures       Resource = "creatures"
	ResourceTraits          Resource = "traits"
	ResourceSpells          Resource = "spells"
	ResourceClasses         Resource = "classes"
	ResourceRaces           Resource = "races"
	ResourcePerks           Resource = "perks"
	ResourceStatusEffects   Resource = "status-effects"
	ResourceSpecializations Resource = "specializations"
)

// AllResources lists every resource in navigation order
func AllResources() []Resource {
	return []Resource{
		ResourceCreatures,
		ResourceTraits,
		ResourceSpells,
		ResourcePerks,
		ResourceRaces,
		ResourceClasses,
		ResourceStatusEffects,
		ResourceSpecializations,
	}
}

// ParseResource validates a resource name
func ParseResource(s string) (Resource, bool) {
	for _, r := range AllResources() {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Valid reports whether r is a known resource
func (r Resource) Valid() bool {
	_, ok := ParseResource(string(r))
	return ok
}

// Ref is the short form of a related entity embedded in another one
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

type Source struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Creature struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	BattleSprite string   `json:"battle_sprite"`
	Health       int      `json:"health"`
	Attack       int      `json:"attack"`
	Intelligence int      `json:"intelligence"`
	Defense      int      `json:"defense"`
	Speed        int      `json:"speed"`
	Race         Ref      `json:"race"`
	Klass        Ref      `json:"klass"`
	Trait        Trait    `json:"trait"`
	Sources      []Source `json:"sources,omitempty"`
}

type Trait struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	MaterialName string   `json:"material_name"`
	Tags         []string `json:"tags"`
}

type Spell struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Charges     int      `json:"charges"`
	Description string   `json:"description"`
	Klass       Ref      `json:"klass"`
	Source      Source   `json:"source"`
	Tags        []string `json:"tags"`
}

type Perk struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Icon           string   `json:"icon"`
	Ranks          int      `json:"ranks"`
	Cost           int      `json:"cost"`
	Annointment    bool     `json:"annointment"`
	Ascension      bool     `json:"ascension"`
	Description    string   `json:"description"`
	Specialization Ref      `json:"specialization"`
	Tags           []string `json:"tags"`
}

type Race struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	DefaultKlass Ref    `json:"default_klass"`
}

type Klass struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type StatusEffect struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Icon        string `json:"icon"`
	Turns       *int   `json:"turns"`
	LeaveChance *int   `json:"leave_chance"`
	MaxStacks   int    `json:"max_stacks"`
	Description string `json:"description"`
}

type Specialization struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}
