// Package view holds the screens of the administrator terminal UI.
package view

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tim1593/shop-db2/internal/auth"
)

const dbTimeout = 5 * time.Second

// Session is the logged in administrator.
type Session struct {
	Admin auth.Admin
	Token string
}

// CommonModel holds the terminal size every screen lays itself out in.
type CommonModel struct {
	Width  int
	Height int
}

func (c *CommonModel) resize(msg tea.Msg) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		c.Width = size.Width
		c.Height = size.Height
	}
}

// tableHeight leaves room for the title, the summary line and the help.
func (c CommonModel) tableHeight() int {
	if c.Height <= 0 {
		return 15
	}

	return max(c.Height-10, 5)
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// DbCtx returns a context with the standard timeout for store calls.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorView(err error) string {
	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", err)),
	)
}

func panel(s string) string {
	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(s)
}
