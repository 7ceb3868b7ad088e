package forms

import (
	"fmt"

	"recipe-service/models"
)

const (
	FieldName        = "name"
	FieldUser        = "user"
	FieldSteps       = "steps"
	FieldIngredients = "ingredients"
	FieldStepText    = "step_text"
	FieldText        = "text"

	maxTextLength = 100
)

var textChecks = []Check{MaxLength(maxTextLength)}

// RecipePayload validates a REST recipe body
type RecipePayload struct {
	models.RecipeRequest
}

// Clean validates the recipe's own fields; references are checked against
// the store by the caller
func (p RecipePayload) Clean(mode Mode) (RecipePayload, Errors) {
	p.Name = trimmed(p.Name)
	return p, Run(
		OptionalField(FieldName, p.Name, mode != ModePartial, textChecks...),
	)
}

// StepPayload validates a REST step body
type StepPayload struct {
	models.StepRequest
}

func (p StepPayload) Clean(mode Mode) (StepPayload, Errors) {
	p.StepText = trimmed(p.StepText)
	return p, Run(
		OptionalField(FieldStepText, p.StepText, mode != ModePartial, textChecks...),
	)
}

// IngredientPayload validates a REST ingredient body
type IngredientPayload struct {
	models.IngredientRequest
}

func (p IngredientPayload) Clean(mode Mode) (IngredientPayload, Errors) {
	p.Text = trimmed(p.Text)
	return p, Run(
		OptionalField(FieldText, p.Text, mode != ModePartial, textChecks...),
	)
}

// MissingReferences reports one error per unknown primary key
func MissingReferences(field string, ids []int) Errors {
	var errs Errors
	for _, id := range ids {
		errs.Add(field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
	}
	return errs
}
