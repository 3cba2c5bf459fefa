package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanObjectKey(t *testing.T) {
	key := ScanObjectKey("phone-0001", "receipt", "IMG_0042.PNG")
	assert.True(t, strings.HasPrefix(key, "scans/phone-0001/receipt/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	key = ScanObjectKey("phone-0001", "expiry", "blob")
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)

	assert.NotEqual(t, ScanObjectKey("a", "b", "c.jpg"), ScanObjectKey("a", "b", "c.jpg"))
}
