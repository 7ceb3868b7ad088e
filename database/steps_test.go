package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-service/models"
)

func TestStepStorage_CRUD(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	st := &models.Step{StepText: "Preheat the oven"}
	require.NoError(t, s.CreateStep(ctx, st))

	got, err := s.GetStep(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Preheat the oven", got.StepText)

	st.StepText = "Preheat the oven to 200C"
	require.NoError(t, s.UpdateStep(ctx, st))

	got, err = s.GetStep(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Preheat the oven to 200C", got.StepText)

	require.NoError(t, s.DeleteStep(ctx, st.ID))
	_, err = s.GetStep(ctx, st.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteStep(ctx, st.ID), ErrNotFound)
	assert.ErrorIs(t, s.UpdateStep(ctx, st), ErrNotFound)
}

func TestStepStorage_DeleteUnlinksRecipes(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	steps := seedSteps(t, s, "Chop", "Boil")

	r := &models.Recipe{Name: "Soup", Steps: steps}
	require.NoError(t, s.CreateRecipe(ctx, r))
	require.NoError(t, s.DeleteStep(ctx, steps[0]))

	got, err := s.GetRecipe(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{steps[1]}, got.Steps)
}

func TestStepStorage_ListAndMissing(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	ids := seedSteps(t, s, "Boil water", "Chop onions", "Boil pasta")

	boiled, total, err := s.ListSteps(ctx, models.ListQuery{Search: "boil"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, boiled, 2)
	assert.Equal(t, ids[0], boiled[0].ID)
	assert.Equal(t, ids[2], boiled[1].ID)

	missing, err := s.MissingStepIDs(ctx, []int{ids[1], 500, 500, 501})
	require.NoError(t, err)
	assert.Equal(t, []int{500, 501}, missing)

	missing, err = s.MissingStepIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestIngredientStorage_CRUD(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	in := &models.Ingredient{Text: "2 eggs"}
	require.NoError(t, s.CreateIngredient(ctx, in))

	in.Text = "3 eggs"
	require.NoError(t, s.UpdateIngredient(ctx, in))

	got, err := s.GetIngredient(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, "3 eggs", got.Text)

	list, total, err := s.ListIngredients(ctx, models.ListQuery{OrderBy: "name"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, list, 1)

	missing, err := s.MissingIngredientIDs(ctx, []int{in.ID, in.ID + 1})
	require.NoError(t, err)
	assert.Equal(t, []int{in.ID + 1}, missing)

	require.NoError(t, s.DeleteIngredient(ctx, in.ID))
	_, err = s.GetIngredient(ctx, in.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
