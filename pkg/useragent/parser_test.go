package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	chromeWindowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	iphoneSafariUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1"
	ipadSafariUA    = "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1"
	googlebotUA     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser("", zap.NewNop())
	require.NoError(t, err)
	return p
}

func TestParseUserAgent_DesktopChrome(t *testing.T) {
	p := newTestParser(t)

	info := p.ParseUserAgent(chromeWindowsUA)

	assert.Equal(t, "desktop", info.DeviceType)
	assert.Equal(t, "Chrome", info.Browser)
	assert.NotEqual(t, Unknown, info.BrowserVersion)
	assert.Equal(t, "Windows", info.OS)
}

func TestParseUserAgent_MobileVsTablet(t *testing.T) {
	p := newTestParser(t)

	phone := p.ParseUserAgent(iphoneSafariUA)
	assert.Equal(t, "mobile", phone.DeviceType)
	assert.Equal(t, "iOS", phone.OS)

	tablet := p.ParseUserAgent(ipadSafariUA)
	assert.Equal(t, "tablet", tablet.DeviceType)
}

func TestParseUserAgent_Bot(t *testing.T) {
	p := newTestParser(t)

	info := p.ParseUserAgent(googlebotUA)
	assert.Equal(t, "bot", info.DeviceType)
}

func TestParseUserAgent_Empty(t *testing.T) {
	p := newTestParser(t)

	info := p.ParseUserAgent("")

	assert.Equal(t, Unknown, info.DeviceType)
	assert.Equal(t, Unknown, info.Vendor)
	assert.Equal(t, Unknown, info.Model)
	assert.Equal(t, OtherClient, info.Browser)
	assert.Equal(t, Unknown, info.BrowserVersion)
	assert.Equal(t, OtherClient, info.OS)
	assert.Equal(t, Unknown, info.OSVersion)
}
