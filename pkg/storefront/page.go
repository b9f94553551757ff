package storefront

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/shopfront/pkg/debounce"
	"github.com/Veraticus/shopfront/pkg/interfaces"
)

// Options configures a Page.
type Options struct {
	NavbarThreshold int
	ViewportHeight  int
	ScrollDebounce  time.Duration
	Products        []Product
	Sections        []Section
}

// DefaultProducts is the stock product grid.
func DefaultProducts() []Product {
	return []Product{
		{Title: "Wireless Headphones", Description: "Noise cancelling over-ear headphones", Price: "$199.99"},
		{Title: "Smart Watch", Description: "Fitness tracking and notifications", Price: "$249.99"},
		{Title: "Laptop Stand", Description: "Adjustable aluminium stand", Price: "$49.99"},
		{Title: "USB-C Hub", Description: "Seven ports, one cable", Price: "$39.99"},
	}
}

// DefaultSections is the stock page layout.
func DefaultSections() []Section {
	return []Section{
		{Name: "products", Top: 600, Height: 900},
		{Name: "features", Top: 1500, Height: 500},
		{Name: "about", Top: 2000, Height: 600},
		{Name: "contact", Top: 2600, Height: 700},
	}
}

// Product cards sit in a grid inside the products section and fade in
// one by one.
const (
	productsSection = "products"
	cardsPerRow     = 3
	cardInset       = 80
	cardHeight      = 350
	cardGap         = 32
)

// cardLayout places product cards inside the products section. It returns
// nil when the page has no products section.
func cardLayout(products []Product, sections []Section) []Section {
	for _, s := range sections {
		if s.Name != productsSection {
			continue
		}
		cards := make([]Section, len(products))
		for i, p := range products {
			cards[i] = Section{
				Name:   p.Title,
				Top:    s.Top + cardInset + (i/cardsPerRow)*(cardHeight+cardGap),
				Height: cardHeight,
			}
		}
		return cards
	}
	return nil
}

// Page owns the storefront's elements and widgets. Element handles are
// created once here and passed to the widgets that use them.
type Page struct {
	Cart       *Cart
	Menu       *Menu
	Navbar     *Navbar
	Catalog    *Catalog
	Contact    *ContactForm
	Newsletter *Newsletter
	Reveal     *Revealer

	buttons  []string
	settled  func(int)
	products []Product
	anchors  map[string]int
}

// NewPage builds the page in doc. limiter throttles the contact form and
// may be nil.
func NewPage(doc interfaces.Document, sched interfaces.Scheduler, notifier Notifier, limiter interfaces.RateLimiter, opts Options) *Page {
	if opts.Products == nil {
		opts.Products = DefaultProducts()
	}
	if opts.Sections == nil {
		opts.Sections = DefaultSections()
	}

	navbarID := attach(doc, "navbar", "")
	hamburgerID := attach(doc, "hamburger", "")
	menuID := attach(doc, "nav-menu", "")
	cartIconID := attach(doc, "nav-cart", "")
	cartCountID := attach(doc, "cart-count", "0")

	cardIDs := make([]string, len(opts.Products))
	buttons := make([]string, len(opts.Products))
	for i, p := range opts.Products {
		cardIDs[i] = attach(doc, "product-card", p.Title)
		buttons[i] = attach(doc, "add-to-cart", "Add to Cart")
	}

	sectionIDs := make([]string, len(opts.Sections))
	anchors := make(map[string]int, len(opts.Sections))
	for i, s := range opts.Sections {
		sectionIDs[i] = attach(doc, s.Name, "")
		anchors[s.Name] = s.Top
	}

	reveal := opts.Sections
	revealIDs := sectionIDs
	if cards := cardLayout(opts.Products, opts.Sections); cards != nil {
		reveal = append(slices.Clone(reveal), cards...)
		revealIDs = append(slices.Clone(revealIDs), cardIDs...)
	}

	p := &Page{
		Cart: NewCart(doc, sched, notifier, cartIconID, func(count int) {
			doc.SetText(cartCountID, strconv.Itoa(count))
		}),
		Menu:       NewMenu(doc, hamburgerID, menuID),
		Navbar:     NewNavbar(doc, navbarID, opts.NavbarThreshold),
		Catalog:    NewCatalog(doc, opts.Products, cardIDs),
		Contact:    NewContactForm(notifier, limiter, nil),
		Newsletter: NewNewsletter(notifier),
		Reveal:     NewRevealer(doc, opts.ViewportHeight, reveal, revealIDs),
		buttons:    buttons,
		products:   opts.Products,
		anchors:    anchors,
	}

	p.settled = debounce.Wrap(sched, opts.ScrollDebounce, func(y int) {
		p.Reveal.Check(y)
	})

	// Sections already in view on load fade in straight away.
	p.Reveal.Check(0)

	return p
}

// Products returns the products shown on the page.
func (p *Page) Products() []Product {
	return p.products
}

// AddToCart presses the add-to-cart button of product i.
func (p *Page) AddToCart(i int) int {
	button := ""
	if i >= 0 && i < len(p.buttons) {
		button = p.buttons[i]
	}
	return p.Cart.Add(button)
}

// FollowLink handles a click on an in-page link such as "#about". It
// closes the menu and scrolls to the named section. It reports false and
// does not scroll when no section has that name.
func (p *Page) FollowLink(target string) bool {
	p.Menu.Close()

	top, ok := p.anchors[strings.TrimPrefix(target, "#")]
	if !ok {
		return false
	}
	p.Scroll(top)
	return true
}

// Scroll handles a scroll event at offset y. The navbar reacts at once;
// section reveals wait for scrolling to settle.
func (p *Page) Scroll(y int) {
	p.Navbar.HandleScroll(y)
	p.settled(y)
}

func attach(doc interfaces.Document, class, text string) string {
	id := doc.CreateElement(class, text)
	doc.AppendChild(id)
	return id
}
