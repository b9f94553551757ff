package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/shopfront/pkg/notification"
)

// Command is one parsed input line.
type Command struct {
	Name   string
	Text   string
	Number float64
	Fields []string
	Kind   notification.Kind
}

const commandHelp = `Commands:
  add [n]                       add product n (default 1) to the cart
  menu                          toggle the navigation menu
  close                         close the navigation menu
  link <section>                jump to a page section (closes the menu)
  scroll <y>                    scroll the page to offset y
  search <query>                show products matching query
  filter <max>                  show products priced at or below max
  contact <name>|<email>|<msg>  submit the contact form
  subscribe <email>             sign up for the newsletter
  notify <kind> <message>       show a toast directly
  cart                          print the cart count
  help                          show this help
  quit                          exit`

// ParseCommand parses one input line. Blank lines yield an empty Name.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, nil
	}

	name, rest, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	rest = strings.TrimSpace(rest)
	cmd := Command{Name: name}

	switch name {
	case "menu", "close", "cart", "help", "quit", "exit":
		if name == "exit" {
			cmd.Name = "quit"
		}
	case "add":
		cmd.Number = 1
		if rest != "" {
			n, err := strconv.Atoi(rest)
			if err != nil || n < 1 {
				return Command{}, fmt.Errorf("add: invalid product number %q", rest)
			}
			cmd.Number = float64(n)
		}
	case "scroll":
		y, err := strconv.Atoi(rest)
		if err != nil || y < 0 {
			return Command{}, fmt.Errorf("scroll: invalid offset %q", rest)
		}
		cmd.Number = float64(y)
	case "filter":
		v, err := strconv.ParseFloat(strings.TrimPrefix(rest, "$"), 64)
		if err != nil {
			return Command{}, fmt.Errorf("filter: invalid price %q", rest)
		}
		cmd.Number = v
	case "link":
		if rest == "" {
			return Command{}, fmt.Errorf("link: missing section")
		}
		cmd.Text = rest
	case "search", "subscribe":
		cmd.Text = rest
	case "contact":
		fields := strings.SplitN(rest, "|", 3)
		for len(fields) < 3 {
			fields = append(fields, "")
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		cmd.Fields = fields
	case "notify":
		kind, message, _ := strings.Cut(rest, " ")
		if kind == "" {
			return Command{}, fmt.Errorf("notify: missing kind")
		}
		cmd.Kind = notification.Kind(strings.ToLower(kind))
		cmd.Text = strings.TrimSpace(message)
	default:
		return Command{}, fmt.Errorf("unknown command %q", name)
	}

	return cmd, nil
}
