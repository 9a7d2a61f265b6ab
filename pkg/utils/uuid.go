package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	digits     = "0123456789"
)

func GenerateID() (string, error) {
	return gonanoid.Generate(characters, 6)
}

// GenerateVerificationCode gera o código numérico de 6 dígitos enviado por email
func GenerateVerificationCode() (string, error) {
	return gonanoid.Generate(digits, 6)
}
