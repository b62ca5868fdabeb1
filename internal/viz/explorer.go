package viz

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/san-kum/opticlab/internal/config"
	"github.com/san-kum/opticlab/internal/logging"
	"github.com/san-kum/opticlab/internal/metrics"
	"github.com/san-kum/opticlab/internal/trace"
)

const (
	tuneStep      = 1.05
	minPlotWidth  = 20
	minPlotHeight = 6
	sidebarWidth  = 44
)

// Explorer is a Bubble Tea model that retraces a prescription whenever
// one of its elements is tuned.
type Explorer struct {
	cfg        *config.Config
	original   []config.ElementSpec
	wavelength float64
	cursor     int
	result     *trace.Result
	err        error
	beam       bool
	theme      int
	width      int
	height     int
	log        *logging.Logger
}

// NewExplorer copies cfg and traces it once.
func NewExplorer(cfg *config.Config, log *logging.Logger) Explorer {
	if log == nil {
		log = logging.NewNop()
	}
	cp := *cfg
	cp.Elements = append([]config.ElementSpec(nil), cfg.Elements...)
	m := Explorer{
		cfg:        &cp,
		original:   append([]config.ElementSpec(nil), cfg.Elements...),
		wavelength: cfg.Wavelength,
		beam:       cfg.Beam != nil,
		width:      80,
		height:     16,
		log:        log.Component("explorer"),
	}
	m.retrace()
	return m
}

func (m *Explorer) retrace() {
	res, err := trace.RunConfig(context.Background(), m.cfg, m.wavelength,
		metrics.NewSpot(), metrics.NewEnvelope())
	m.result, m.err = res, err
	if err != nil {
		m.log.Debug("retrace failed", zap.Error(err))
		return
	}
	m.log.Debug("retraced",
		zap.Int("samples", res.Len()),
		zap.Float64("rms_spot", res.Metrics["rms_spot"]))
}

// tunable returns the parameter h/l adjusts for spec, or nil.
func tunable(spec *config.ElementSpec) (*float64, string) {
	switch spec.Kind {
	case config.KindThinLens:
		return &spec.Focal, "focal"
	case config.KindTransfer, config.KindDuct, config.KindThickLens:
		return &spec.Length, "length"
	case config.KindRefraction, config.KindMirror:
		if spec.Radius == 0 {
			return nil, ""
		}
		return &spec.Radius, "radius"
	case config.KindGrating:
		return &spec.AOIDeg, "aoi"
	}
	return nil, ""
}

func (m *Explorer) adjust(factor float64) {
	if len(m.cfg.Elements) == 0 {
		return
	}
	p, name := tunable(&m.cfg.Elements[m.cursor])
	if p == nil {
		return
	}
	*p *= factor
	m.log.Debug("tuned", zap.String("element", m.cfg.Elements[m.cursor].Label),
		zap.String("param", name), zap.Float64("value", *p))
	m.retrace()
}

func (m *Explorer) reset() {
	m.cfg.Elements = append(m.cfg.Elements[:0], m.original...)
	m.retrace()
}

func (m Explorer) Init() tea.Cmd { return nil }

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.cfg.Elements)-1 {
				m.cursor++
			}
		case "right", "l":
			m.adjust(tuneStep)
		case "left", "h":
			m.adjust(1 / tuneStep)
		case "b":
			m.beam = !m.beam
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "r":
			m.reset()
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-sidebarWidth-4, minPlotWidth)
		m.height = max(msg.Height-8, minPlotHeight)
	}
	return m, nil
}

// Config returns the tuned prescription.
func (m Explorer) Config() *config.Config { return m.cfg }

// Result returns the latest trace, nil after a failed retrace.
func (m Explorer) Result() *trace.Result { return m.result }

func (m Explorer) View() string {
	theme := Themes[m.theme]
	var s strings.Builder

	header := Title.Render(strings.ToUpper(m.cfg.Name)) +
		Subtle.Render(fmt.Sprintf("  λ=%.1f nm  theme=%s", m.wavelength*1e9, theme.Name))
	s.WriteString(header + "\n\n")

	plot := ""
	if m.result != nil {
		opts := DiagramOptions{Width: m.width, Height: m.height, Rays: true, Beam: m.beam}
		plot = lipgloss.NewStyle().Foreground(theme.Rays).Render(RayDiagram(m.result, opts).String())
	}

	sidebar := Panel.Width(sidebarWidth).Render(m.sidebar(theme))
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, plot, " ", sidebar))
	s.WriteString("\n" + KeyHint.Render("j/k select  h/l tune  b beam  t theme  r reset  q quit") + "\n")
	return s.String()
}

func (m Explorer) sidebar(theme Theme) string {
	var s strings.Builder
	for i := range m.cfg.Elements {
		spec := &m.cfg.Elements[i]
		line := fmt.Sprintf("%-12s %-10s", truncate(spec.Label, 12), spec.Kind)
		if p, name := tunable(spec); p != nil {
			line += fmt.Sprintf(" %s=%s", name, formatParam(name, *p))
		}
		if i == m.cursor {
			s.WriteString(Selected.Render("▸ "+line) + "\n")
		} else {
			s.WriteString("  " + Subtle.Render(line) + "\n")
		}
	}
	s.WriteString(Separator(sidebarWidth-4) + "\n")

	if m.err != nil {
		s.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(m.err.Error()) + "\n")
		return s.String()
	}

	sys := m.result.System
	if sys.Afocal() {
		s.WriteString(Field("EFL", "afocal") + "\n")
		s.WriteString(Field("Magnification", fmt.Sprintf("%.4g", sys.A)) + "\n")
	} else {
		s.WriteString(Field("EFL", fmt.Sprintf("%.3f mm", sys.FocalLength2()*1e3)) + "\n")
		s.WriteString(Field("BFL", fmt.Sprintf("%.3f mm", trace.Focus(sys)*1e3)) + "\n")
	}
	s.WriteString(Field("RMS spot", fmt.Sprintf("%.3f µm", m.result.Metrics["rms_spot"]*1e6)) + "\n")
	s.WriteString(Field("Max height", fmt.Sprintf("%.3f mm", m.result.Metrics["max_height"]*1e3)) + "\n")
	if z, w, ok := trace.Waist(m.result); ok {
		s.WriteString(Field("Waist", fmt.Sprintf("%.2f µm @ %.1f mm", w*1e6, z*1e3)) + "\n")
		s.WriteString(lipgloss.NewStyle().Foreground(theme.Beam).Render(Sparkline(m.result.BeamW, sidebarWidth-4)) + "\n")
	}
	return s.String()
}

func formatParam(name string, v float64) string {
	if name == "aoi" {
		return fmt.Sprintf("%.2f°", v)
	}
	if math.IsInf(v, 0) {
		return "∞"
	}
	return fmt.Sprintf("%.2fmm", v*1e3)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// RunExplorer starts the explorer full screen and blocks until it exits.
func RunExplorer(cfg *config.Config, log *logging.Logger) error {
	_, err := tea.NewProgram(NewExplorer(cfg, log), tea.WithAltScreen()).Run()
	return err
}
