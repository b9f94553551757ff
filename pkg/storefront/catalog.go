package storefront

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Veraticus/shopfront/pkg/interfaces"
)

// Product is one product card.
type Product struct {
	Title       string
	Description string
	// Price is the displayed price text, e.g. "$49.99".
	Price string
}

type card struct {
	Product
	id    string
	shown bool
}

// Catalog shows and hides product cards. It is not safe for concurrent
// use; drive it from one goroutine.
type Catalog struct {
	doc   interfaces.Document
	cards []card
}

// NewCatalog creates the catalog over already created card elements;
// ids[i] belongs to products[i].
func NewCatalog(doc interfaces.Document, products []Product, ids []string) *Catalog {
	cards := make([]card, 0, len(products))
	for i, p := range products {
		if i >= len(ids) {
			break
		}
		cards = append(cards, card{Product: p, id: ids[i], shown: true})
	}
	return &Catalog{doc: doc, cards: cards}
}

// Search shows cards whose title or description contains query, ignoring
// case, and returns how many are shown.
func (c *Catalog) Search(query string) int {
	term := strings.ToLower(query)
	return c.show(func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Description), term)
	})
}

// FilterByPrice shows cards priced at or below maxPrice and returns how many
// are shown. Cards with an unreadable price are hidden.
func (c *Catalog) FilterByPrice(maxPrice float64) int {
	return c.show(func(p Product) bool {
		price, ok := ParsePrice(p.Price)
		return ok && price <= maxPrice
	})
}

// Visible returns the titles of the cards currently shown.
func (c *Catalog) Visible() []string {
	var titles []string
	for _, card := range c.cards {
		if card.shown {
			titles = append(titles, card.Title)
		}
	}
	return titles
}

func (c *Catalog) show(match func(Product) bool) int {
	shown := 0
	for i := range c.cards {
		card := &c.cards[i]
		card.shown = match(card.Product)
		if card.shown {
			c.doc.SetStyle(card.id, "display", "block")
			shown++
			continue
		}
		c.doc.SetStyle(card.id, "display", "none")
	}
	return shown
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParsePrice reads a price such as "$49.99". The first "$" is dropped and
// the leading number is used, so "$10 each" reads as 10.
func ParsePrice(text string) (float64, bool) {
	s := strings.TrimSpace(strings.Replace(text, "$", "", 1))
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
