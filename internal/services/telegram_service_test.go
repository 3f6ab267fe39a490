package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "0", FormatPrice(0, ""))
	assert.Equal(t, "960", FormatPrice(960, ""))
	assert.Equal(t, "1,060", FormatPrice(1060, ""))
	assert.Equal(t, "1,234,567", FormatPrice(1234567, ""))
	assert.Equal(t, "2,400 BDT", FormatPrice(2400, "BDT"))
}

func TestTelegramNoopWithoutConfig(t *testing.T) {
	svc := NewTelegramService("", "")

	assert.NoError(t, svc.SendToAdmin("hello"))
	assert.NoError(t, svc.NotifyNewOrder(OrderNotification{OrderNumber: "LUX-1"}))
	assert.NoError(t, svc.NotifyPaymentReceived(PaymentNotification{OrderNumber: "LUX-1"}))
}
