package services

import (
	"strings"
)

// Pantry categories
const (
	CategoryDairy     = "dairy"
	CategoryMeat      = "meat"
	CategoryFish      = "fish"
	CategoryProduce   = "produce"
	CategoryBakery    = "bakery"
	CategoryEggs      = "eggs"
	CategoryFrozen    = "frozen"
	CategoryDeli      = "deli"
	CategoryBeverages = "beverages"
	CategorySnacks    = "snacks"
	CategoryPantry    = "pantry"
	CategoryOther     = "other"
)

// categoryShelfLifeDays is the default shelf life, in days, for each category
var categoryShelfLifeDays = map[string]int{
	CategoryDairy:     7,
	CategoryMeat:      3,
	CategoryFish:      2,
	CategoryProduce:   5,
	CategoryBakery:    4,
	CategoryEggs:      21,
	CategoryFrozen:    90,
	CategoryDeli:      5,
	CategoryBeverages: 30,
	CategorySnacks:    60,
	CategoryPantry:    180,
}

type categoryKeywords struct {
	category string
	keywords []string
}

// Checked in order, so "frozen peas" is frozen and not produce
var categoryRules = []categoryKeywords{
	{CategoryFrozen, []string{"frozen", "ice cream", "ice lolly", "frozen-foods"}},
	{CategoryEggs, []string{"egg", "eggs"}},
	{CategoryFish, []string{"fish", "salmon", "cod", "haddock", "tuna", "prawn", "shrimp", "mackerel", "seafood", "seafoods"}},
	{CategoryMeat, []string{"meat", "meats", "chicken", "beef", "pork", "lamb", "mince", "sausage", "bacon", "turkey", "steak", "breast", "boneless", "skinless"}},
	{CategoryDeli, []string{"ham", "salami", "chorizo", "deli", "hummus", "coleslaw"}},
	{CategoryDairy, []string{"milk", "cheese", "yogurt", "yoghurt", "butter", "cream", "dairy", "dairies", "creme fraiche", "kefir"}},
	{CategoryBakery, []string{"bread", "loaf", "bagel", "roll", "bun", "croissant", "muffin", "wrap", "pitta", "bakery", "baguette"}},
	{CategoryProduce, []string{"apple", "banana", "orange", "lemon", "lime", "grape", "berry", "strawberry", "blueberry", "tomato", "potato", "onion", "carrot", "lettuce", "salad", "spinach", "pepper", "cucumber", "broccoli", "mushroom", "avocado", "fruit", "vegetable", "vegetables", "produce", "herbs", "fresh"}},
	{CategoryBeverages, []string{"juice", "water", "cola", "coke", "lemonade", "soda", "beer", "wine", "tea", "coffee", "squash", "beverage", "beverages", "drink", "drinks"}},
	{CategorySnacks, []string{"crisps", "chips", "chocolate", "biscuit", "cookie", "cookies", "candy", "sweets", "snack", "snacks", "popcorn", "nuts"}},
	{CategoryPantry, []string{"pasta", "rice", "flour", "sugar", "oil", "beans", "tin", "can", "soup", "sauce", "cereal", "oats", "jam", "honey", "spice", "salt", "ketchup", "noodles", "pantry", "groceries"}},
}

// receiptAbbreviations expands the shorthand tills print
var receiptAbbreviations = map[string]string{
	"org":   "organic",
	"whl":   "whole",
	"chkn":  "chicken",
	"brst":  "breast",
	"bnls":  "boneless",
	"sknls": "skinless",
	"gal":   "gallon",
	"qt":    "quart",
	"pt":    "pint",
	"oz":    "ounce",
	"lb":    "pound",
	"lbs":   "pounds",
	"pkg":   "package",
	"btl":   "bottle",
	"cn":    "can",
	"bx":    "box",
	"bg":    "bag",
	"ea":    "each",
	"ct":    "count",
	"pc":    "piece",
	"pcs":   "pieces",
	"lrg":   "large",
	"med":   "medium",
	"sml":   "small",
	"frsh":  "fresh",
	"frzn":  "frozen",
	"slf":   "self",
	"rsg":   "rising",
	"flr":   "flour",
	"veg":   "vegetable",
	"vegs":  "vegetables",
	"frt":   "fruit",
	"jce":   "juice",
	"mlk":   "milk",
	"chse":  "cheese",
	"brd":   "bread",
	"wht":   "white",
	"brn":   "brown",
	"grn":   "green",
	"yel":   "yellow",
	"blu":   "blue",
	"blk":   "black",
	"yog":   "yogurt",
	"ssg":   "sausage",
	"toms":  "tomatoes",
	"pots":  "potatoes",
}

// ExpandReceiptName lowercases a till name and expands known abbreviations
// token by token. A quantity glued to a unit ("2pt") is split first.
func ExpandReceiptName(name string) string {
	tokens := strings.Fields(strings.ToLower(name))
	for i, token := range tokens {
		prefix, word := splitLeadingDigits(token)
		full, ok := receiptAbbreviations[word]
		if !ok {
			continue
		}
		if prefix != "" {
			tokens[i] = prefix + " " + full
		} else {
			tokens[i] = full
		}
	}
	return strings.Join(tokens, " ")
}

func splitLeadingDigits(token string) (string, string) {
	i := strings.IndexFunc(token, func(r rune) bool { return r < '0' || r > '9' })
	if i <= 0 {
		return "", token
	}
	return token[:i], token[i:]
}

// GuessCategory maps a product or receipt name to a pantry category
func GuessCategory(name string) string {
	text := " " + strings.NewReplacer(",", " ", ":", " ", "/", " ").Replace(ExpandReceiptName(name)) + " "
	tokens := strings.Fields(text)

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(kw, " ") {
				if strings.Contains(text, " "+kw+" ") {
					return rule.category
				}
				continue
			}
			for _, token := range tokens {
				if token == kw || token == kw+"s" || token == kw+"es" {
					return rule.category
				}
			}
		}
	}
	return CategoryOther
}

// NormalizeCategory maps free-form category text (a user's choice, or an
// Open Food Facts category list) to a known category
func NormalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return CategoryOther
	}
	if _, ok := categoryShelfLifeDays[c]; ok {
		return c
	}
	return GuessCategory(c)
}

// CategoryShelfLifeDays returns the default shelf life for a category
func CategoryShelfLifeDays(category string) (int, bool) {
	days, ok := categoryShelfLifeDays[category]
	return days, ok
}
