package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/foxxcyber/pantry-scan/internal/models"
)

// ReceiptParser parses OCR text from receipts
type ReceiptParser struct {
	pricePattern     *regexp.Regexp
	excludePatterns  []*regexp.Regexp
	totalPatterns    []*regexp.Regexp
	quantityPatterns []*regexp.Regexp
	barcodeRun       *regexp.Regexp
	nameStrip        *regexp.Regexp
	spaces           *regexp.Regexp
	twoLetters       *regexp.Regexp
	dates            *ExpiryDateParser
}

// NewReceiptParser creates a new receipt parser
func NewReceiptParser() *ReceiptParser {
	return &ReceiptParser{
		// Currency-prefixed price. The minus must touch the symbol: -£0.50 is a
		// discount, "MILK - £1.20" is not.
		pricePattern: regexp.MustCompile(`(-)?[£$€]\s?(\d{1,4}[.,]\d{2})`),
		excludePatterns: []*regexp.Regexp{
			// Totals, payment and loyalty rows start with their keyword
			regexp.MustCompile(`(?i)^\s*(SUB\s*-?\s*TOTAL|TOTAL|GRAND\s*TOTAL|BALANCE|CHANGE|CASH|CARD|VISA|MASTERCARD|MAESTRO|AMEX|DISCOVER|DEBIT|CREDIT|CONTACTLESS|PAYMENT|PAID|TENDER(ED)?|TAX|VAT|SAVINGS?|DISCOUNT|COUPON|VOUCHER|PROMO(TION)?|MULTIBUY|CLUBCARD|NECTAR|LOYALTY|POINTS|REWARDS?|MEMBER(SHIP)?|MERCHANT|RECEIPT|REFUND|RETURNS?|VOID|CASHIER|OPERATOR|TEL|PHONE|EMAIL|SURCHARGE|ITEMS?\s*SOLD|NUMBER\s*OF\s*ITEMS|HAVE\s*A)\b`),
			// Store, till and transaction identifiers: "STORE #2041", "REG 3", "TRANS: 0042"
			regexp.MustCompile(`(?i)^\s*(STORE|REG(ISTER)?|TILL|TRANS(ACTION)?|TERMINAL|AUTH(ORI[SZ]ATION)?)\s*(#|NO\b|:|\d)`),
			// Footer markers, wherever they appear on the line
			regexp.MustCompile(`(?i)\bTHANK\s*YOU\b`),
			regexp.MustCompile(`(?i)\b(VISA|MASTERCARD|MAESTRO|AMEX)\b.*(\*{2,}|X{4}|\d{4})`),
			regexp.MustCompile(`(?i)\.(com|co\.uk|net|org)\b|\bwww\.`),
			// Separator rows
			regexp.MustCompile(`^\s*[-=*_#.~]+\s*$`),
			// Date and time stamps
			regexp.MustCompile(`\b\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}\b`),
			regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(:\d{2})?\s*(AM|PM)?\b`),
			// Quantity/weight detail lines: "2 @ £2.79 EACH" or "0.96 kg @ £1.99/kg"
			regexp.MustCompile(`(?i)^\s*\d+[.,]?\d*\s*(lb|oz|kg|g)?\s*@\s*[£$€]?\s?\d+[.,]\d{2}\s*(/\s*(lb|oz|kg|g)|EACH|EA)?\s*$`),
		},
		totalPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:GRAND\s*TOTAL|TOTAL|BALANCE\s*DUE|AMOUNT\s*DUE|TO\s*PAY)\b\s*:?\s*[£$€]?\s?(\d+[.,]\d{2})`),
		},
		quantityPatterns: []*regexp.Regexp{
			// "2 x BREAD", "3 EGGS"
			regexp.MustCompile(`^(\d{1,3})\s*[xX]?\s+(.+)$`),
			// a bare "2" or "2x"
			regexp.MustCompile(`^(\d{1,3})\s*[xX]?$`),
		},
		// UPC/EAN printed between name and price on some receipts
		barcodeRun: regexp.MustCompile(`\b\d{8,14}\b`),
		nameStrip:  regexp.MustCompile(`[^\p{L}\p{N} '\-&]+`),
		spaces:     regexp.MustCompile(`\s+`),
		twoLetters: regexp.MustCompile(`\p{L}{2}`),
		dates:      NewExpiryDateParser(),
	}
}

// Parse parses OCR text and extracts items, the total and the purchase date
func (p *ReceiptParser) Parse(ocrText string) *models.ParsedReceipt {
	lines := strings.Split(ocrText, "\n")

	return &models.ParsedReceipt{
		Items: p.ParseLines(lines),
		Total: p.extractTotal(lines),
		Date:  p.extractDate(lines),
	}
}

// ParseLines extracts item/price pairs from receipt lines. Lines without a
// usable price are dropped without error.
func (p *ReceiptParser) ParseLines(lines []string) []models.ParsedItem {
	items := []models.ParsedItem{}
	seen := make(map[string]bool)

	for i, raw := range lines {
		line := p.cleanLine(raw)
		if line == "" || p.shouldExclude(line) {
			continue
		}

		matches := p.pricePattern.FindAllStringSubmatchIndex(line, -1)
		if len(matches) == 0 {
			continue
		}

		last := matches[len(matches)-1]
		if last[2] >= 0 {
			// Negative amounts are discounts, never items
			continue
		}
		price, err := decimal.NewFromString(strings.Replace(line[last[4]:last[5]], ",", ".", 1))
		if err != nil || !price.IsPositive() {
			continue
		}

		quantity, name := p.splitQuantity(line[:matches[0][0]])
		name = p.cleanItemName(name)

		if !p.isUsableName(name) && i > 0 {
			prevQuantity, prevName := p.nameFromPreviousLine(lines[i-1])
			if p.isUsableName(prevName) {
				name = prevName
				if quantity == 0 {
					quantity = prevQuantity
				}
			}
		}
		if !p.isUsableName(name) {
			continue
		}
		if quantity <= 0 {
			quantity = 1
		}

		key := strings.ToLower(name) + "|" + price.StringFixed(2)
		if seen[key] {
			continue
		}
		seen[key] = true

		items = append(items, models.ParsedItem{
			RawText:    strings.TrimSpace(raw),
			Name:       name,
			Price:      price,
			Quantity:   quantity,
			LineNumber: i,
		})
	}

	return items
}

// nameFromPreviousLine reads an item name wrapped onto the line above its
// price. A line that carries its own price or is excluded is not a name.
func (p *ReceiptParser) nameFromPreviousLine(raw string) (int, string) {
	line := p.cleanLine(raw)
	if line == "" || p.shouldExclude(line) || p.pricePattern.MatchString(line) {
		return 0, ""
	}
	quantity, name := p.splitQuantity(line)
	return quantity, p.cleanItemName(name)
}

// splitQuantity separates a leading "<N> " prefix. Zero means no prefix.
func (p *ReceiptParser) splitQuantity(text string) (int, string) {
	text = strings.TrimSpace(text)
	for _, pattern := range p.quantityPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		quantity, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if len(m) > 2 {
			return quantity, m[2]
		}
		return quantity, ""
	}
	return 0, text
}

// shouldExclude checks if a line should be excluded
func (p *ReceiptParser) shouldExclude(line string) bool {
	for _, pattern := range p.excludePatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

// cleanLine cleans up a line for parsing
func (p *ReceiptParser) cleanLine(line string) string {
	line = norm.NFKC.String(line)
	line = strings.ReplaceAll(line, "|", " ")
	line = strings.ReplaceAll(line, "\\", " ")
	line = p.spaces.ReplaceAllString(line, " ")
	return strings.TrimSpace(line)
}

// cleanItemName keeps letters, digits, spaces, apostrophes, hyphens and ampersands
func (p *ReceiptParser) cleanItemName(name string) string {
	name = p.barcodeRun.ReplaceAllString(name, "")
	name = p.nameStrip.ReplaceAllString(name, "")
	name = p.spaces.ReplaceAllString(name, " ")
	return strings.Trim(name, " -'")
}

func (p *ReceiptParser) isUsableName(name string) bool {
	return utf8.RuneCountInString(name) > 2 && p.twoLetters.MatchString(name)
}

// extractTotal extracts the total from the receipt
func (p *ReceiptParser) extractTotal(lines []string) *decimal.Decimal {
	// Search from the bottom of the receipt
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		for _, pattern := range p.totalPatterns {
			matches := pattern.FindStringSubmatch(line)
			if len(matches) < 2 {
				continue
			}
			total, err := decimal.NewFromString(strings.Replace(matches[1], ",", ".", 1))
			if err == nil && total.IsPositive() {
				return &total
			}
		}
	}
	return nil
}

// extractDate returns the first legal date on the receipt, top down
func (p *ReceiptParser) extractDate(lines []string) *time.Time {
	for _, line := range lines {
		candidates, _ := p.dates.Candidates(line)
		if len(candidates) > 0 {
			date := candidates[0].Time()
			return &date
		}
	}
	return nil
}
