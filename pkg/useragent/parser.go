package useragent

import (
	"fmt"
	"os"
	"strings"

	"github.com/ua-parser/uap-go/uaparser"
	"go.uber.org/zap"
)

const (
	// Unknown is the sentinel for facts the parser could not derive.
	Unknown = "Unknown"
	// OtherClient is the sentinel for unrecognized browser and OS names.
	OtherClient = "Other"
)

// Parser classifies raw User-Agent strings into structured device facts.
// It is constructed once at startup and passed in explicitly.
type Parser struct {
	parser *uaparser.Parser
	log    *zap.Logger
}

// DeviceInfo represents parsed device information.
type DeviceInfo struct {
	DeviceType     string // mobile, desktop, tablet, bot, Unknown
	Vendor         string // Apple, Samsung, ...
	Model          string // iPhone, SM-G998B, ...
	Browser        string // Chrome, Firefox, Safari, ...
	BrowserVersion string
	OS             string // Windows, iOS, Android, ...
	OSVersion      string
	Raw            string // Original User-Agent string
}

// NewParser creates a parser from a uap-core regexes file. When the file is
// missing or unreadable it falls back to the definitions compiled into the
// library.
func NewParser(regexFilePath string, log *zap.Logger) (*Parser, error) {
	if regexFilePath != "" {
		data, err := os.ReadFile(regexFilePath)
		if err == nil {
			p, perr := uaparser.NewFromBytes(data)
			if perr != nil {
				return nil, fmt.Errorf("failed to create User-Agent parser: %w", perr)
			}
			log.Info("User-Agent parser initialized from file", zap.String("regexes_file", regexFilePath))
			return &Parser{parser: p, log: log}, nil
		}
		log.Warn("regexes file not readable, using built-in definitions",
			zap.String("regexes_file", regexFilePath), zap.Error(err))
	}

	return &Parser{parser: uaparser.NewFromSaved(), log: log}, nil
}

// ParseUserAgent parses a User-Agent string into detailed device facts.
// Every field the parser cannot derive is filled with its sentinel.
func (p *Parser) ParseUserAgent(userAgent string) *DeviceInfo {
	if userAgent == "" {
		return &DeviceInfo{
			DeviceType:     Unknown,
			Vendor:         Unknown,
			Model:          Unknown,
			Browser:        OtherClient,
			BrowserVersion: Unknown,
			OS:             OtherClient,
			OSVersion:      Unknown,
		}
	}

	client := p.parser.Parse(userAgent)

	info := &DeviceInfo{
		Vendor:         orUnknown(client.Device.Brand),
		Model:          orUnknown(client.Device.Model),
		Browser:        orOther(client.UserAgent.Family),
		BrowserVersion: orUnknown(client.UserAgent.ToVersionString()),
		OS:             orOther(client.Os.Family),
		OSVersion:      orUnknown(client.Os.ToVersionString()),
		Raw:            userAgent,
	}
	info.DeviceType = p.determineDeviceType(client, userAgent)

	p.log.Debug("parsed User-Agent",
		zap.String("device_type", info.DeviceType),
		zap.String("browser", info.Browser),
		zap.String("os", info.OS),
	)

	return info
}

// determineDeviceType classifies the device from parsed client info and the
// raw User-Agent string.
func (p *Parser) determineDeviceType(client *uaparser.Client, userAgent string) string {
	if p.isBot(client, userAgent) {
		return "bot"
	}

	deviceFamily := client.Device.Family
	if deviceFamily != "" && deviceFamily != "Other" {
		if isTabletDevice(deviceFamily) {
			return "tablet"
		}
		if isMobileDevice(deviceFamily) {
			return "mobile"
		}
	}

	osFamily := client.Os.Family
	if isMobileOS(osFamily) {
		if isTabletOS(osFamily, userAgent) {
			return "tablet"
		}
		return "mobile"
	}

	if isDesktopOS(osFamily) {
		return "desktop"
	}

	return Unknown
}

// isBot checks if the User-Agent represents a bot or crawler.
func (p *Parser) isBot(client *uaparser.Client, userAgent string) bool {
	botIndicators := []string{
		"Googlebot", "Bingbot", "Slurp", "DuckDuckBot", "Baiduspider",
		"YandexBot", "facebookexternalhit", "Twitterbot", "LinkedInBot",
		"WhatsApp", "Telegram", "SkypeUriPreview", "bot", "crawler",
		"spider", "scraper",
	}

	for _, indicator := range botIndicators {
		if containsFold(client.UserAgent.Family, indicator) || containsFold(userAgent, indicator) {
			return true
		}
	}
	return false
}

func isMobileDevice(deviceFamily string) bool {
	mobileDevices := []string{
		"iPhone", "Android", "BlackBerry", "Windows Phone", "Mobile", "Phone",
	}
	for _, device := range mobileDevices {
		if containsFold(deviceFamily, device) {
			return true
		}
	}
	return false
}

func isTabletDevice(deviceFamily string) bool {
	tabletDevices := []string{"iPad", "Tablet", "Kindle", "Surface"}
	for _, device := range tabletDevices {
		if containsFold(deviceFamily, device) {
			return true
		}
	}
	return false
}

func isMobileOS(osFamily string) bool {
	mobileOS := []string{
		"iOS", "Android", "Windows Phone", "BlackBerry OS",
		"Firefox OS", "Sailfish OS",
	}
	for _, os := range mobileOS {
		if containsFold(osFamily, os) {
			return true
		}
	}
	return false
}

// isTabletOS distinguishes tablets from phones on mobile operating systems.
func isTabletOS(osFamily, userAgent string) bool {
	if containsFold(osFamily, "iOS") {
		return containsFold(userAgent, "iPad")
	}
	// Android tablets typically do not carry "Mobile" in the User-Agent.
	if containsFold(osFamily, "Android") {
		return !containsFold(userAgent, "Mobile")
	}
	return false
}

func isDesktopOS(osFamily string) bool {
	desktopOS := []string{
		"Windows", "Mac OS X", "macOS", "Linux", "Ubuntu",
		"Chrome OS", "FreeBSD", "OpenBSD", "NetBSD",
	}
	for _, os := range desktopOS {
		if containsFold(osFamily, os) {
			return true
		}
	}
	return false
}

// Helper functions

func containsFold(str, substr string) bool {
	if str == "" || substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
}

func orUnknown(s string) string {
	if s == "" || s == "Other" {
		return Unknown
	}
	return s
}

func orOther(s string) string {
	if s == "" {
		return OtherClient
	}
	return s
}
