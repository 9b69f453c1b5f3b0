package httpHandler_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"recipe-server/entities"
	"recipe-server/internal/testutils"

	"github.com/google/go-cmp/cmp"
)

func TestTags(t *testing.T) {
	t.Run("it lists the caller's tags by descending name", func(t *testing.T) {
		api := newTestAPI(t)
		user, token := api.user("user@example.com")
		other, _ := api.user("other@example.com")
		testutils.CreateTag(t, api.db, user, "Dessert")
		testutils.CreateTag(t, api.db, user, "Vegan")
		testutils.CreateTag(t, api.db, other, "Fruity")

		w := api.do(http.MethodGet, "/recipe/tags/", token, nil)
		expectStatus(t, w, http.StatusOK)
		if diff := cmp.Diff([]string{"Vegan", "Dessert"}, attrNames(decode[[]attributeBody](t, w))); diff != "" {
			t.Errorf("tags mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("it creates, renames and deletes a tag", func(t *testing.T) {
		api := newTestAPI(t)
		_, token := api.user("user@example.com")

		w := api.do(http.MethodPost, "/recipe/tags/", token, map[string]string{"name": "After dinner"})
		expectStatus(t, w, http.StatusCreated)
		created := decode[attributeBody](t, w)
		path := fmt.Sprintf("/recipe/tags/%d/", created.ID)

		w = api.do(http.MethodPatch, path, token, map[string]string{"name": "Dessert"})
		expectStatus(t, w, http.StatusOK)
		if diff := cmp.Diff(attributeBody{ID: created.ID, Name: "Dessert"}, decode[attributeBody](t, w)); diff != "" {
			t.Errorf("renamed tag mismatch (-want +got):\n%s", diff)
		}

		w = api.do(http.MethodPut, path, token, map[string]string{})
		expectStatus(t, w, http.StatusBadRequest)

		w = api.do(http.MethodDelete, path, token, nil)
		expectStatus(t, w, http.StatusNoContent)
		w = api.do(http.MethodGet, path, token, nil)
		expectStatus(t, w, http.StatusNotFound)
	})

	t.Run("it creates and renames a tag from a form body", func(t *testing.T) {
		api := newTestAPI(t)
		_, token := api.user("user@example.com")

		w := api.form(http.MethodPost, "/recipe/tags/", token, url.Values{"name": {"Breakfast"}})
		expectStatus(t, w, http.StatusCreated)
		created := decode[attributeBody](t, w)

		w = api.form(http.MethodPatch, fmt.Sprintf("/recipe/tags/%d/", created.ID), token, url.Values{"name": {"Brunch"}})
		expectStatus(t, w, http.StatusOK)
		if diff := cmp.Diff(attributeBody{ID: created.ID, Name: "Brunch"}, decode[attributeBody](t, w)); diff != "" {
			t.Errorf("renamed tag mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("it hides and protects another user's tag", func(t *testing.T) {
		api := newTestAPI(t)
		_, token := api.user("user@example.com")
		other, _ := api.user("other@example.com")
		tag := testutils.CreateTag(t, api.db, other, "Secret")
		path := fmt.Sprintf("/recipe/tags/%d/", tag.ID)

		expectStatus(t, api.do(http.MethodGet, path, token, nil), http.StatusNotFound)
		expectStatus(t, api.do(http.MethodPatch, path, token, map[string]string{"name": "Mine"}), http.StatusNotFound)
		expectStatus(t, api.do(http.MethodDelete, path, token, nil), http.StatusNotFound)
	})

	t.Run("assigned_only returns linked tags once", func(t *testing.T) {
		api := newTestAPI(t)
		user, token := api.user("user@example.com")
		eggs := testutils.CreateTag(t, api.db, user, "Breakfast")
		testutils.CreateTag(t, api.db, user, "Lunch")
		r1 := testutils.CreateRecipe(t, api.db, user, "Eggs benedict")
		r2 := testutils.CreateRecipe(t, api.db, user, "Coriander eggs on toast")
		testutils.Attach(t, api.db, r1, []*entities.Tag{eggs}, nil)
		testutils.Attach(t, api.db, r2, []*entities.Tag{eggs}, nil)

		w := api.do(http.MethodGet, "/recipe/tags/?assigned_only=1", token, nil)
		expectStatus(t, w, http.StatusOK)
		want := []attributeBody{{ID: eggs.ID, Name: "Breakfast"}}
		if diff := cmp.Diff(want, decode[[]attributeBody](t, w)); diff != "" {
			t.Errorf("assigned tags mismatch (-want +got):\n%s", diff)
		}

		w = api.do(http.MethodGet, "/recipe/tags/?assigned_only=0", token, nil)
		expectStatus(t, w, http.StatusOK)
		if got := decode[[]attributeBody](t, w); len(got) != 2 {
			t.Errorf("assigned_only=0 returned %d tags, want 2", len(got))
		}
	})

	t.Run("assigned_only must be an integer", func(t *testing.T) {
		api := newTestAPI(t)
		_, token := api.user("user@example.com")

		w := api.do(http.MethodGet, "/recipe/tags/?assigned_only=yes", token, nil)
		expectStatus(t, w, http.StatusBadRequest)
	})
}

func TestIngredients(t *testing.T) {
	t.Run("it lists and filters the caller's ingredients", func(t *testing.T) {
		api := newTestAPI(t)
		user, token := api.user("user@example.com")
		other, _ := api.user("other@example.com")
		apples := testutils.CreateIngredient(t, api.db, user, "Apples")
		testutils.CreateIngredient(t, api.db, user, "Turkey")
		testutils.CreateIngredient(t, api.db, other, "Vinegar")
		recipe := testutils.CreateRecipe(t, api.db, user, "Apple crumble")
		testutils.Attach(t, api.db, recipe, nil, []*entities.Ingredient{apples})

		w := api.do(http.MethodGet, "/recipe/ingredients/", token, nil)
		expectStatus(t, w, http.StatusOK)
		if diff := cmp.Diff([]string{"Turkey", "Apples"}, attrNames(decode[[]attributeBody](t, w))); diff != "" {
			t.Errorf("ingredients mismatch (-want +got):\n%s", diff)
		}

		w = api.do(http.MethodGet, "/recipe/ingredients/?assigned_only=1", token, nil)
		expectStatus(t, w, http.StatusOK)
		if diff := cmp.Diff([]string{"Apples"}, attrNames(decode[[]attributeBody](t, w))); diff != "" {
			t.Errorf("assigned ingredients mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("deleting an ingredient keeps the recipe", func(t *testing.T) {
		api := newTestAPI(t)
		user, token := api.user("user@example.com")
		salt := testutils.CreateIngredient(t, api.db, user, "Salt")
		recipe := testutils.CreateRecipe(t, api.db, user, "")
		testutils.Attach(t, api.db, recipe, nil, []*entities.Ingredient{salt})

		w := api.do(http.MethodDelete, fmt.Sprintf("/recipe/ingredients/%d/", salt.ID), token, nil)
		expectStatus(t, w, http.StatusNoContent)

		w = api.do(http.MethodGet, recipeURL(recipe.ID), token, nil)
		expectStatus(t, w, http.StatusOK)
		if got := decode[recipeBody](t, w); len(got.Ingredients) != 0 {
			t.Errorf("recipe still lists %v", got.Ingredients)
		}
	})
}
