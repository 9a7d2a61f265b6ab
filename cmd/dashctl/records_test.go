package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

func TestDraftFor(t *testing.T) {
	rows := []domain.Client{{
		Record:  domain.Record{ID: "c-1", Version: 2},
		Name:    "Rahim Traders",
		Email:   "rahim@example.com",
		Revenue: 15000,
	}}

	t.Run("novo registro usa apenas --data", func(t *testing.T) {
		draft, err := draftFor[domain.Client, domain.ClientDraft](rows, "", []byte(`{"name":"Karim"}`))

		require.NoError(t, err)
		assert.Equal(t, domain.ClientDraft{Name: "Karim"}, draft)
	})

	t.Run("edição preserva os campos não enviados", func(t *testing.T) {
		draft, err := draftFor[domain.Client, domain.ClientDraft](rows, "c-1", []byte(`{"revenue":20000}`))

		require.NoError(t, err)
		assert.Equal(t, "c-1", draft.ID)
		assert.Equal(t, 2, draft.Version)
		assert.Equal(t, "Rahim Traders", draft.Name)
		assert.Equal(t, "rahim@example.com", draft.Email)
		assert.Equal(t, 20000.0, draft.Revenue)
	})

	t.Run("id desconhecido", func(t *testing.T) {
		_, err := draftFor[domain.Client, domain.ClientDraft](rows, "c-9", nil)
		assert.Error(t, err)
	})

	t.Run("json inválido", func(t *testing.T) {
		_, err := draftFor[domain.Client, domain.ClientDraft](rows, "", []byte(`{nome`))
		assert.Error(t, err)
	})
}

func TestLookupCollection(t *testing.T) {
	for _, c := range domain.Collections {
		_, err := lookupCollection(string(c))
		assert.NoError(t, err, c)
	}

	_, err := lookupCollection("settings")
	assert.Error(t, err)
	assert.Len(t, collectionNames(), len(domain.Collections))
}
