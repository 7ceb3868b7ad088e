package models

import "encoding/json"

// Recipe belongs optionally to a user and references steps and ingredients by id
type Recipe struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	UserID      *int   `json:"user" db:"user_id"`
	Steps       []int  `json:"steps" db:"-"`
	Ingredients []int  `json:"ingredients" db:"-"`
}

// Step is a single preparation instruction
type Step struct {
	ID       int    `json:"id" db:"id"`
	StepText string `json:"step_text" db:"step_text"`
}

// Ingredient is a single ingredient line
type Ingredient struct {
	ID   int    `json:"id" db:"id"`
	Text string `json:"text" db:"text"`
}

// RecipeRequest is the REST body for recipes; nil slices on PATCH leave links untouched
type RecipeRequest struct {
	Name        *string    `json:"name,omitempty"`
	User        NullableID `json:"user"`
	Steps       *[]int     `json:"steps,omitempty"`
	Ingredients *[]int     `json:"ingredients,omitempty"`
}

// NullableID is an optional foreign key in a request body. Set is false
// when the field was absent; a JSON null sets it with a nil Value.
type NullableID struct {
	Set   bool
	Value *int
}

// SomeID is a present, non-null id
func SomeID(id int) NullableID {
	return NullableID{Set: true, Value: &id}
}

func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var id int
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

func (n NullableID) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// StepRequest is the REST body for steps
type StepRequest struct {
	StepText *string `json:"step_text,omitempty"`
}

// IngredientRequest is the REST body for ingredients
type IngredientRequest struct {
	Text *string `json:"text,omitempty"`
}

// ListQuery filters recipe, step and ingredient listings
type ListQuery struct {
	Search  string
	OrderBy string // "id" (default) or "name"
	Limit   int
	Offset  int
}
