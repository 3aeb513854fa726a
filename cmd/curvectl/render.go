// ====================================
// File: cmd/curvectl/render.go
// ====================================
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gagliardetto/solana-go"

	"github.com/oraichain/pump-fun-smart-contract/internal/dex/pumpfun"
	"github.com/oraichain/pump-fun-smart-contract/internal/storage/models"
	"github.com/oraichain/pump-fun-smart-contract/internal/utils/fixedpoint"
)

var (
	colorAccent = lipgloss.Color("#7D56F4")
	colorMuted  = lipgloss.Color("#888888")
	colorOK     = lipgloss.Color("#04B575")
	colorWarn   = lipgloss.Color("#FFB86C")
	colorError  = lipgloss.Color("#FF5F87")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(18)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			PaddingRight(2)

	cellStyle = lipgloss.NewStyle().PaddingRight(2)
)

func stageStyle(s pumpfun.Stage) lipgloss.Style {
	switch s {
	case pumpfun.StageActive:
		return lipgloss.NewStyle().Foreground(colorOK)
	case pumpfun.StageCompleted:
		return lipgloss.NewStyle().Foreground(colorWarn)
	default:
		return lipgloss.NewStyle().Foreground(colorMuted)
	}
}

type field struct {
	label string
	value string
}

// card renders a titled box of label/value rows.
func card(w io.Writer, title string, fields ...field) {
	rows := []string{titleStyle.Render(title)}
	for _, f := range fields {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(f.label), f.value))
	}
	fmt.Fprintln(w, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

// table renders rows under a header with columns padded to the widest cell.
func table(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, c := range row {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	line := func(style lipgloss.Style, cells []string) string {
		out := make([]string, len(cells))
		for i, c := range cells {
			out[i] = style.Width(widths[i] + 2).Render(c)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, out...)
	}

	lines := []string{line(headerStyle, header)}
	for _, row := range rows {
		lines = append(lines, line(cellStyle, row))
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

func sol(lamports uint64) string {
	return fixedpoint.ToDecimal(lamports, pumpfun.LamportDecimals).String() + " SOL"
}

func tokens(amount uint64, decimals uint8) string {
	return fixedpoint.ToDecimal(amount, decimals).String()
}

func short(key solana.PublicKey) string {
	s := key.String()
	if len(s) <= 12 {
		return s
	}
	return s[:4] + ".." + s[len(s)-4:]
}

func renderConfig(w io.Writer, cfg *pumpfun.GlobalConfig) {
	pending := "-"
	if !cfg.PendingAuthority.IsZero() {
		pending = cfg.PendingAuthority.String()
	}
	card(w, "Global config",
		field{"authority", cfg.Authority.String()},
		field{"pending authority", pending},
		field{"team wallet", cfg.TeamWallet.String()},
		field{"buy fee", cfg.PlatformBuyFee.String() + "%"},
		field{"sell fee", cfg.PlatformSellFee.String() + "%"},
		field{"migration fee", cfg.PlatformMigrationFee.String() + "%"},
		field{"curve limit", sol(cfg.CurveLimit)},
		field{"lamport amount", cfg.LamportAmountConfig.String()},
		field{"token supply", cfg.TokenSupplyConfig.String()},
		field{"token decimals", cfg.TokenDecimalsConfig.String()},
	)
}

type curveRow struct {
	curve    *pumpfun.BondingCurve
	decimals uint8
	symbol   string
}

func renderCurves(w io.Writer, cfg *pumpfun.GlobalConfig, curves []curveRow) {
	if len(curves) == 0 {
		fmt.Fprintln(w, labelStyle.Render("no curves launched"))
		return
	}
	rows := make([][]string, 0, len(curves))
	for _, c := range curves {
		rows = append(rows, []string{
			c.curve.TokenMint.String(),
			c.symbol,
			stageStyle(c.curve.Stage).Render(c.curve.Stage.String()),
			sol(c.curve.ReserveLamport),
			tokens(c.curve.ReserveToken, c.decimals),
			c.curve.SpotPrice(c.decimals).StringFixed(12),
			fmt.Sprintf("%.1f%%", c.curve.Progress(cfg)*100),
		})
	}
	table(w, []string{"MINT", "SYMBOL", "STAGE", "RESERVE SOL", "RESERVE TOKEN", "PRICE", "PROGRESS"}, rows)
}

func renderJournal(w io.Writer, entries []*models.Instruction) {
	if len(entries) == 0 {
		fmt.Fprintln(w, labelStyle.Render("journal is empty"))
		return
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := lipgloss.NewStyle().Foreground(colorOK).Render(e.Status)
		if e.Status != models.StatusSuccess {
			status = lipgloss.NewStyle().Foreground(colorError).Render(e.Status)
		}
		rows = append(rows, []string{
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Name,
			status,
			e.Mint,
			fmt.Sprint(e.AmountIn),
			fmt.Sprint(e.AmountOut),
			e.ErrorMessage,
		})
	}
	table(w, []string{"TIME", "INSTRUCTION", "STATUS", "MINT", "IN", "OUT", "ERROR"}, rows)
}
