package form

import "github.com/samijoehayek/opus-oakadmin/internal/domain"

// AddFeature appends a feature with the default icon.
func AddFeature(features []Feature, newID IDFunc) []Feature {
	out := make([]Feature, 0, len(features)+1)
	out = append(out, features...)
	return append(out, Feature{ID: newID(), Icon: domain.DefaultFeatureIcon})
}

func RemoveFeature(features []Feature, index int) []Feature {
	return removeAt(features, index)
}

func UpdateFeature(features []Feature, index int, p FeaturePatch) []Feature {
	return updateAt(features, index, func(f Feature) Feature {
		f.Icon = set(p.Icon, f.Icon)
		f.Title = set(p.Title, f.Title)
		f.Description = set(p.Description, f.Description)
		return f
	})
}

func MoveFeature(features []Feature, from, to int) []Feature {
	return move(features, from, to)
}

// AddSpecification appends an empty row.
func AddSpecification(specs []Specification) []Specification {
	out := make([]Specification, 0, len(specs)+1)
	out = append(out, specs...)
	return append(out, Specification{})
}

func RemoveSpecification(specs []Specification, index int) []Specification {
	return removeAt(specs, index)
}

func UpdateSpecification(specs []Specification, index int, p SpecificationPatch) []Specification {
	return updateAt(specs, index, func(s Specification) Specification {
		s.Label = set(p.Label, s.Label)
		s.Value = set(p.Value, s.Value)
		return s
	})
}

func MoveSpecification(specs []Specification, from, to int) []Specification {
	return move(specs, from, to)
}
