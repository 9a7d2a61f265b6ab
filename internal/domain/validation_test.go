package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("nome em branco e email inválido", func(t *testing.T) {
		err := ClientDraft{Name: "  ", Email: "nao-e-email"}.Validate()

		var fields ValidationErrors
		require.True(t, errors.As(err, &fields))
		assert.Equal(t, "campo obrigatório", fields["name"])
		assert.Contains(t, fields, "email")
	})

	t.Run("método de pagamento fora da lista", func(t *testing.T) {
		err := PaymentDraft{ClientID: "c-1", Amount: 10, Method: "Cash"}.Validate()

		var fields ValidationErrors
		require.True(t, errors.As(err, &fields))
		assert.Contains(t, fields, "method")
	})

	t.Run("data fora do formato", func(t *testing.T) {
		err := SaleDraft{ClientID: "c-1", Amount: 10, Date: "01/05/2024"}.Validate()

		var fields ValidationErrors
		require.True(t, errors.As(err, &fields))
		assert.Contains(t, fields, "date")
	})

	t.Run("rascunho válido", func(t *testing.T) {
		assert.NoError(t, PaymentDraft{ClientID: "c-1", Amount: 10, Method: PaymentMethodNagad}.Validate())
		assert.NoError(t, TargetDraft{Title: "Meta", Goal: 1}.Validate())
	})

	t.Run("mensagem ordenada por campo", func(t *testing.T) {
		err := ValidationErrors{"name": "campo obrigatório", "amount": "deve ser maior que 0"}
		assert.Equal(t, "validação falhou: amount: deve ser maior que 0; name: campo obrigatório", err.Error())
	})
}

func TestPaymentMethod(t *testing.T) {
	assert.True(t, PaymentMethodBKash.IsMobileWallet())
	assert.False(t, PaymentMethodBankAccount.IsMobileWallet())
	assert.True(t, PaymentMethod("Debit Card").IsValid())
	assert.False(t, PaymentMethod("bkash").IsValid())
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "সক্রিয়", ClientStatusActive.Label(LanguageBN))
	assert.Equal(t, "active", ClientStatusActive.Label(LanguageEN))
	assert.Equal(t, "বকেয়া", SaleStatusDue.Label(LanguageBN))
}
