// Package ordernum генерирует бизнес-номера заказов вида
// SN + yyyyMMddHHmmssSSS + три случайные цифры, например SN20260210090000123457.
package ordernum

import (
	"fmt"
	"math/rand"
	"time"
)

// Prefix — префикс всех номеров заказов.
const Prefix = "SN"

// Generate возвращает новый номер заказа. Метка времени берётся с точностью
// до миллисекунды, суффикс — три случайные цифры. Коллизия теоретически
// возможна, уникальность окончательно гарантирует уникальный индекс в базе.
func Generate() string {
	return generateAt(time.Now())
}

func generateAt(now time.Time) string {
	timestamp := now.Format("20060102150405") +
		fmt.Sprintf("%03d", now.Nanosecond()/1e6)
	suffix := fmt.Sprintf("%03d", rand.Intn(1000))
	return Prefix + timestamp + suffix
}
