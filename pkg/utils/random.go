package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	mrand "math/rand"
)

// GenerateID создает простой уникальный ID (замена UUID для снижения зависимостей)
func GenerateID() string {
	b := make([]byte, 8) // 16 символов hex
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// GenerateDeterministicID создает воспроизводимый ID из сидированного rng.
// Один и тот же сид генерации мира дает одни и те же ID сущностей.
func GenerateDeterministicID(rng *mrand.Rand, prefix string) string {
	return fmt.Sprintf("%s%016x", prefix, rng.Uint64())
}

// StringToSeed детерминированно превращает строку в сид для rand.Source.
// Используется генератором мира, чтобы один и тот же конфиг давал одну и ту же карту.
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
