package pages

import (
	"strconv"
	"strings"

	"github.com/rebeliceyang/lazycodex/internal/models"
	"github.com/rebeliceyang/lazycodex/internal/query"
)

// CreatureFields are the filterable attributes of a creature
var CreatureFields = models.FieldSet{
	{Name: "name", Type: models.FieldString, Label: "Name", Resource: models.ResourceCreatures},
	{Name: "klass_name", Type: models.FieldString, Label: "Class", Resource: models.ResourceClasses},
	{Name: "race_name", Type: models.FieldString, Label: "Race", Resource: models.ResourceRaces},
	{Name: "trait_name", Type: models.FieldString, Label: "Trait", Resource: models.ResourceTraits},
	{Name: "health", Type: models.FieldNumber, Label: "Health", Abbr: "HP", Icon: "stats/health.png"},
	{Name: "attack", Type: models.FieldNumber, Label: "Attack", Abbr: "ATK", Icon: "stats/attack.png"},
	{Name: "intelligence", Type: models.FieldNumber, Label: "Intelligence", Abbr: "INT", Icon: "stats/intelligence.png"},
	{Name: "defense", Type: models.FieldNumber, Label: "Defense", Abbr: "DEF", Icon: "stats/defense.png"},
	{Name: "speed", Type: models.FieldNumber, Label: "Speed", Abbr: "SPD", Icon: "stats/speed.png"},
	{Name: "trait_tags", Type: models.FieldStringArray, Label: "Tags"},
}

var PerkFields = models.FieldSet{
	{Name: "specialization_name", Type: models.FieldString, Label: "Specialization", Resource: models.ResourceSpecializations},
	{Name: "name", Type: models.FieldString, Label: "Name", Resource: models.ResourcePerks},
	{Name: "ranks", Type: models.FieldNumber, Label: "Ranks"},
	{Name: "cost", Type: models.FieldNumber, Label: "Cost"},
	{Name: "annointment", Type: models.FieldBoolean, Label: "Annointment"},
	{Name: "ascension", Type: models.FieldBoolean, Label: "Ascension"},
}

var SpellFields = models.FieldSet{
	{Name: "name", Type: models.FieldString, Label: "Name", Resource: models.ResourceSpells},
	{Name: "klass_name", Type: models.FieldString, Label: "Class", Resource: models.ResourceClasses},
	{Name: "charges", Type: models.FieldNumber, Label: "Charges"},
}

var RaceFields = models.FieldSet{
	{Name: "name", Type: models.FieldString, Label: "Name", Resource: models.ResourceRaces},
	{Name: "default_klass_name", Type: models.FieldString, Label: "Class", Resource: models.ResourceClasses},
}

var TraitFields = models.FieldSet{
	{Name: "name", Type: models.FieldString, Label: "Name", Resource: models.ResourceTraits},
	{Name: "material_name", Type: models.FieldString, Label: "Material"},
	{Name: "tags", Type: models.FieldStringArray, Label: "Tags"},
}

var ClassFields = models.FieldSet{
	{Name: "name", Type: models.FieldString, Label: "Name", Resource: models.ResourceClasses},
}

var StatusEffectFields = models.FieldSet{
	{Name: "name", Type: models.FieldString, Label: "Name", Resource: models.ResourceStatusEffects},
	{Name: "category", Type: models.FieldString, Label: "Category"},
	{Name: "turns", Type: models.FieldNumber, Label: "Turns"},
	{Name: "leave_chance", Type: models.FieldNumber, Label: "Leave Chance"},
	{Name: "max_stacks", Type: models.FieldNumber, Label: "Max Stacks"},
}

var SpecializationFields = models.FieldSet{
	{Name: "name", Type: models.FieldString, Label: "Name", Resource: models.ResourceSpecializations},
}

func Creatures(opts ...query.Option) Page {
	return &definition[models.Creature]{
		resource:  models.ResourceCreatures,
		title:     "Creatures",
		structure: query.NewStructure(CreatureFields, append([]query.Option{query.WithSortBy("race_name")}, opts...)...),
		columns: []Column{
			{Title: "Name", SortKey: "name", Width: 22},
			{Title: "Class", SortKey: "klass_name", Width: 12},
			{Title: "Race", SortKey: "race_name", Width: 14},
			{Title: "Trait", SortKey: "trait_name", Width: 18},
			{Title: "HP", SortKey: "health", Width: 5},
			{Title: "ATK", SortKey: "attack", Width: 5},
			{Title: "INT", SortKey: "intelligence", Width: 5},
			{Title: "DEF", SortKey: "defense", Width: 5},
			{Title: "SPD", SortKey: "speed", Width: 5},
			{Title: "Tags", Width: 24},
		},
		project: func(c models.Creature) Row {
			return Row{
				ID:   itoa(c.ID),
				Slug: c.Slug,
				Cells: []string{
					c.Name, c.Klass.Name, c.Race.Name, c.Trait.Name,
					itoa(c.Health), itoa(c.Attack), itoa(c.Intelligence), itoa(c.Defense), itoa(c.Speed),
					tags(c.Trait.Tags),
				},
			}
		},
	}
}

func Traits(opts ...query.Option) Page {
	return &definition[models.Trait]{
		resource:  models.ResourceTraits,
		title:     "Traits",
		structure: query.NewStructure(TraitFields, opts...),
		columns: []Column{
			{Title: "Name", SortKey: "name", Width: 20},
			{Title: "Material", SortKey: "material_name", Width: 18},
			{Title: "Description", Width: 50},
			{Title: "Tags", Width: 24},
		},
		project: func(t models.Trait) Row {
			return Row{ID: itoa(t.ID), Cells: []string{t.Name, t.MaterialName, t.Description, tags(t.Tags)}}
		},
	}
}

func Spells(opts ...query.Option) Page {
	return &definition[models.Spell]{
		resource:  models.ResourceSpells,
		title:     "Spells",
		structure: query.NewStructure(SpellFields, opts...),
		columns: []Column{
			{Title: "Name", SortKey: "name", Width: 20},
			{Title: "Class", SortKey: "klass_name", Width: 12},
			{Title: "Charges", SortKey: "charges", Width: 8},
			{Title: "Source", Width: 16},
			{Title: "Description", Width: 44},
			{Title: "Tags", Width: 20},
		},
		project: func(s models.Spell) Row {
			return Row{
				ID:    itoa(s.ID),
				Cells: []string{s.Name, s.Klass.Name, itoa(s.Charges), s.Source.Name, s.Description, tags(s.Tags)},
			}
		},
	}
}

func Perks(opts ...query.Option) Page {
	return &definition[models.Perk]{
		resource:  models.ResourcePerks,
		title:     "Perks",
		structure: query.NewStructure(PerkFields, opts...),
		columns: []Column{
			{Title: "Specialization", SortKey: "specialization_name", Width: 16},
			{Title: "Name", SortKey: "name", Width: 22},
			{Title: "Ranks", SortKey: "ranks", Width: 6},
			{Title: "Cost", SortKey: "cost", Width: 5},
			{Title: "Annointment", SortKey: "annointment", Width: 11},
			{Title: "Ascension", SortKey: "ascension", Width: 9},
			{Title: "Description", Width: 40},
		},
		project: func(p models.Perk) Row {
			return Row{
				ID: itoa(p.ID),
				Cells: []string{
					p.Specialization.Name, p.Name, itoa(p.Ranks), itoa(p.Cost),
					yesNo(p.Annointment), yesNo(p.Ascension), p.Description,
				},
			}
		},
	}
}

func Races(opts ...query.Option) Page {
	return &definition[models.Race]{
		resource:  models.ResourceRaces,
		title:     "Races",
		structure: query.NewStructure(RaceFields, opts...),
		columns: []Column{
			{Title: "Name", SortKey: "name", Width: 18},
			{Title: "Class", SortKey: "default_klass_name", Width: 14},
			{Title: "Description", Width: 60},
		},
		project: func(r models.Race) Row {
			return Row{ID: itoa(r.ID), Cells: []string{r.Name, r.DefaultKlass.Name, r.Description}}
		},
	}
}

func Classes(opts ...query.Option) Page {
	return &definition[models.Klass]{
		resource:  models.ResourceClasses,
		title:     "Classes",
		structure: query.NewStructure(ClassFields, opts...),
		columns: []Column{
			{Title: "Name", SortKey: "name", Width: 18},
			{Title: "Description", Width: 70},
		},
		project: func(k models.Klass) Row {
			return Row{ID: itoa(k.ID), Cells: []string{k.Name, k.Description}}
		},
	}
}

func StatusEffects(opts ...query.Option) Page {
	return &definition[models.StatusEffect]{
		resource:  models.ResourceStatusEffects,
		title:     "Status Effects",
		structure: query.NewStructure(StatusEffectFields, opts...),
		columns: []Column{
			{Title: "Name", SortKey: "name", Width: 18},
			{Title: "Category", SortKey: "category", Width: 12},
			{Title: "Turns", SortKey: "turns", Width: 6},
			{Title: "Leave Chance", SortKey: "leave_chance", Width: 12},
			{Title: "Max Stacks", SortKey: "max_stacks", Width: 10},
			{Title: "Description", Width: 44},
		},
		project: func(s models.StatusEffect) Row {
			return Row{
				ID: itoa(s.ID),
				Cells: []string{
					s.Name, s.Category, optInt(s.Turns), optInt(s.LeaveChance), itoa(s.MaxStacks), s.Description,
				},
			}
		},
	}
}

func Specializations(opts ...query.Option) Page {
	return &definition[models.Specialization]{
		resource:  models.ResourceSpecializations,
		title:     "Specializations",
		structure: query.NewStructure(SpecializationFields, opts...),
		columns: []Column{
			{Title: "Name", SortKey: "name", Width: 18},
			{Title: "Description", Width: 70},
		},
		project: func(s models.Specialization) Row {
			return Row{ID: itoa(s.ID), Cells: []string{s.Name, s.Description}}
		},
	}
}

func itoa(n int) string { return strconv.Itoa(n) }

func optInt(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func tags(t []string) string {
	return strings.Join(t, ", ")
}
