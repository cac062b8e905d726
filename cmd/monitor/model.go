package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
)

var (
	keyQuit = key.NewBinding(key.WithKeys("q", "ctrl+c"))
	keyUp   = key.NewBinding(key.WithKeys("up", "k"))
	keyDown = key.NewBinding(key.WithKeys("down", "j"))
)

// depthRow mirrors one row of dashboard.DepthEntry, decoded without
// importing the internal/dashboard package so monitor only depends
// on the wire JSON shape, not the engine's internals.
type depthRow struct {
	Price    float64 `json:"price"`
	Quantity uint64  `json:"quantity"`
	Orders   int     `json:"orders"`
}

type snapshotMsg struct {
	Type     string     `json:"type"`
	BestBid  *float64   `json:"best_bid"`
	BestAsk  *float64   `json:"best_ask"`
	Spread   *float64   `json:"spread"`
	MidPrice *float64   `json:"mid_price"`
	Bids     []depthRow `json:"bids"`
	Asks     []depthRow `json:"asks"`
}

type tradeMsg struct {
	Type     string  `json:"type"`
	Symbol   string  `json:"symbol"`
	Price    float64 `json:"price"`
	Quantity uint64  `json:"quantity"`
	Value    float64 `json:"value"`
}

type statsMsg struct {
	Type             string `json:"type"`
	TotalOrders      uint64 `json:"total_orders"`
	BidLevels        int    `json:"bid_levels"`
	AskLevels        int    `json:"ask_levels"`
	TotalBidQuantity uint64 `json:"total_bid_quantity"`
	TotalAskQuantity uint64 `json:"total_ask_quantity"`
}

// wireMsg is consumed only to sniff the "type" discriminator before
// unmarshalling into the concrete shape.
type wireMsg struct {
	Type string `json:"type"`
}

type connectedMsg struct{ conn *websocket.Conn }
type connErrMsg struct{ err error }
type feedMsg struct{ raw []byte }
type feedClosedMsg struct{}
type retryMsg struct{ url string }

// model is the monitor's bubbletea application state.
type model struct {
	url    string
	conn   *websocket.Conn
	status string

	book   snapshotMsg
	trades []tradeMsg
	stats  statsMsg

	tradeScroll   int
	width, height int
}

func newModel(url string) model {
	return model{url: url, status: "connecting..."}
}

func (m model) Init() tea.Cmd {
	return connect(m.url)
}

func connect(url string) tea.Cmd {
	return func() tea.Msg {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			return connErrMsg{err}
		}
		return connectedMsg{conn}
	}
}

func readNext(conn *websocket.Conn) tea.Cmd {
	return func() tea.Msg {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return feedClosedMsg{}
		}
		return feedMsg{raw}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyQuit):
			if m.conn != nil {
				m.conn.Close()
			}
			return m, tea.Quit
		case key.Matches(msg, keyUp):
			if m.tradeScroll > 0 {
				m.tradeScroll--
			}
		case key.Matches(msg, keyDown):
			if m.tradeScroll < len(m.trades)-1 {
				m.tradeScroll++
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case connectedMsg:
		m.conn = msg.conn
		m.status = "connected to " + m.url
		return m, readNext(m.conn)

	case connErrMsg:
		m.status = "connection failed: " + msg.err.Error() + ", retrying..."
		url := m.url
		return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
			return retryMsg{url: url}
		})

	case retryMsg:
		return m, connect(msg.url)

	case feedClosedMsg:
		m.status = "disconnected"
		return m, nil

	case feedMsg:
		m.applyWireMessage(msg.raw)
		return m, readNext(m.conn)
	}

	return m, nil
}

func (m *model) applyWireMessage(raw []byte) {
	var probe wireMsg
	if err := json.Unmarshal(raw, &probe); err != nil {
		return
	}
	switch probe.Type {
	case "orderbook_snapshot":
		var snap snapshotMsg
		if json.Unmarshal(raw, &snap) == nil {
			m.book = snap
		}
	case "trade":
		var t tradeMsg
		if json.Unmarshal(raw, &t) == nil {
			m.trades = append(m.trades, t)
			if len(m.trades) > 20 {
				m.trades = m.trades[len(m.trades)-20:]
			}
		}
	case "statistics":
		var s statsMsg
		if json.Unmarshal(raw, &s) == nil {
			m.stats = s
		}
	}
}

func (m model) View() string {
	if m.width == 0 {
		return m.status
	}

	bookPanel := panelStyle.Width(m.width/2 - 2).Height(m.height - 6).Render(m.renderBook())
	tradePanel := panelStyle.Width(m.width/2 - 2).Height(m.height - 6).Render(m.renderTrades())
	row := lipgloss.JoinHorizontal(lipgloss.Top, bookPanel, tradePanel)

	statsLine := statusStyle.Width(m.width).Render(m.renderStats())
	statusLine := statusStyle.Width(m.width).Render(m.status + " — q to quit")

	return lipgloss.JoinVertical(lipgloss.Left, row, statsLine, statusLine)
}

func (m model) renderBook() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%10s %10s │ %10s %10s", "BidSz", "Bid", "Ask", "AskSz")))
	b.WriteString("\n")

	rows := len(m.book.Bids)
	if len(m.book.Asks) > rows {
		rows = len(m.book.Asks)
	}
	for i := 0; i < rows; i++ {
		var bidSize, bidPrice, askPrice, askSize string
		if i < len(m.book.Bids) {
			bidSize = fmt.Sprintf("%d", m.book.Bids[i].Quantity)
			bidPrice = fmt.Sprintf("%.2f", m.book.Bids[i].Price)
		}
		if i < len(m.book.Asks) {
			askPrice = fmt.Sprintf("%.2f", m.book.Asks[i].Price)
			askSize = fmt.Sprintf("%d", m.book.Asks[i].Quantity)
		}
		bidPart := fmt.Sprintf("%10s %10s", bidSize, bidPrice)
		askPart := fmt.Sprintf("%10s %10s", askPrice, askSize)
		b.WriteString(buyStyle.Render(bidPart))
		b.WriteString(" │ ")
		b.WriteString(sellStyle.Render(askPart))
		b.WriteString("\n")
	}

	if m.book.Spread != nil {
		b.WriteString(fmt.Sprintf("\nspread: %.2f", *m.book.Spread))
	}
	if m.book.MidPrice != nil {
		b.WriteString(fmt.Sprintf("  mid: %.2f", *m.book.MidPrice))
	}
	return b.String()
}

func (m model) renderTrades() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Recent Trades (↑/↓ to scroll)"))
	b.WriteString("\n")
	for i := len(m.trades) - 1 - m.tradeScroll; i >= 0; i-- {
		t := m.trades[i]
		line := fmt.Sprintf("%-8s %8d @ %10.2f  (%.2f)", t.Symbol, t.Quantity, t.Price, t.Value)
		b.WriteString(buyStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) renderStats() string {
	return fmt.Sprintf("trades=%d bid_levels=%d ask_levels=%d bid_qty=%d ask_qty=%d",
		m.stats.TotalOrders, m.stats.BidLevels, m.stats.AskLevels, m.stats.TotalBidQuantity, m.stats.TotalAskQuantity)
}
