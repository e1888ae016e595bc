package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation(CodeDraftIncomplete, "Fiche incomplète"), http.StatusUnprocessableEntity},
		{NotFound("Brouillon"), http.StatusNotFound},
		{Permission("Ce brouillon appartient à un autre acheteur"), http.StatusForbidden},
		{Conflict(CodePromotionConflict, "Le brouillon a déjà été promu"), http.StatusConflict},
		{Storage("échec de l'envoi", nil), http.StatusBadGateway},
		{Transaction("la promotion a échoué", nil), http.StatusInternalServerError},
		{errors.New("erreur quelconque"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err))
	}
}

func TestHTTPStatus_Wrapped(t *testing.T) {
	err := fmt.Errorf("contexte: %w", NotFound("Produit"))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
	assert.True(t, IsKind(err, KindNotFound))
}

func TestErrorMessage(t *testing.T) {
	e := Validation(CodeCostPriceInvalid, "Le prix d'achat doit être strictement positif")
	assert.Equal(t, "validation (COST_PRICE_INVALID): Le prix d'achat doit être strictement positif", e.Error())

	e = NotFound("Brouillon")
	assert.Equal(t, "not_found: Brouillon introuvable", e.Error())
}

func TestPermissionCarriesNotOwnerCode(t *testing.T) {
	e := Permission("Ce brouillon appartient à un autre acheteur")
	assert.Equal(t, CodeNotOwner, e.Code)
	assert.Equal(t, KindPermission, e.Kind)
}
