package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/venuebook/pkg/client"
	"github.com/naveenspark/venuebook/pkg/domain"
)

const thresholdStep = 5

const (
	materialName = iota
	materialCategory
	materialStock
)

type materialsLoadedMsg struct {
	category  string
	materials []domain.Material
	threshold int
	err       error
}

type materialSavedMsg struct {
	text string
	err  error
}

type thresholdSavedMsg struct {
	threshold int
	err       error
}

type materialsModel struct {
	client     *client.Client
	materials  []domain.Material
	categories []string // "" first, for all
	category   int
	threshold  int
	cursor     int
	mode       catalogueMode
	form       form
	status     string
	err        string
	frame      int
}

func newMaterialForm() form {
	return newForm(
		formField{label: "name"},
		formField{label: "category", placeholder: "Furniture, Audio, ..."},
		formField{label: "stock", placeholder: "total units"},
	)
}

func newMaterialsModel(c *client.Client) materialsModel {
	return materialsModel{client: c, categories: []string{""}, form: newMaterialForm()}
}

func (m materialsModel) Init() tea.Cmd {
	c := m.client
	category := m.categoryFilter()
	return func() tea.Msg {
		materials, err := c.ListMaterials(context.Background(), category)
		if err != nil {
			return materialsLoadedMsg{category: category, err: err}
		}
		threshold, err := c.AlertThreshold(context.Background())
		return materialsLoadedMsg{category: category, materials: materials, threshold: threshold, err: err}
	}
}

func (m materialsModel) categoryFilter() string {
	if m.category < len(m.categories) {
		return m.categories[m.category]
	}
	return ""
}

func (m materialsModel) editing() bool { return m.mode != modeList }

func (m materialsModel) helpKeys() string {
	switch m.mode {
	case modeForm:
		return helpBar("tab", "next", "ctrl+s", "save", "esc", "cancel")
	case modeConfirm:
		return helpBar("y", "delete", "n", "keep")
	}
	return helpBar("j/k", "nav", "n", "new", "d", "delete", "c", "category", "+/-", "threshold")
}

func (m materialsModel) selected() (domain.Material, bool) {
	if m.cursor < len(m.materials) {
		return m.materials[m.cursor], true
	}
	return domain.Material{}, false
}

func (m materialsModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		m.frame++

	case materialsLoadedMsg:
		if msg.category != m.categoryFilter() {
			return m, nil
		}
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
			return m, nil
		}
		m.err = ""
		m.materials = msg.materials
		m.threshold = msg.threshold
		if msg.category == "" {
			m.categories = categoriesOf(msg.materials)
		}
		if m.cursor >= len(m.materials) {
			m.cursor = 0
		}

	case materialSavedMsg:
		if msg.err != nil {
			return m, showError(msg.err)
		}
		return m, tea.Batch(showToast(msg.text), m.Init())

	case thresholdSavedMsg:
		if msg.err != nil {
			return m, showError(msg.err)
		}
		m.threshold = msg.threshold
		return m, showToast(fmt.Sprintf("alert threshold set to %d%%", msg.threshold))

	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			m.mode = modeList
			if msg.String() == "y" {
				if mat, ok := m.selected(); ok {
					c := m.client
					return m, func() tea.Msg {
						err := c.DeleteMaterial(context.Background(), mat.ID)
						return materialSavedMsg{text: fmt.Sprintf("material %q deleted", mat.Name), err: err}
					}
				}
			}
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

// categoriesOf returns "" followed by the distinct categories, sorted.
func categoriesOf(materials []domain.Material) []string {
	seen := make(map[string]bool)
	for _, mat := range materials {
		if mat.Category != "" {
			seen[mat.Category] = true
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return append([]string{""}, out...)
}

func (m materialsModel) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.materials)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "c":
		m.category = (m.category + 1) % len(m.categories)
		m.cursor = 0
		return m, m.Init()
	case "n":
		m.mode = modeForm
		m.status = ""
		m.form = newMaterialForm()
	case "d":
		if _, ok := m.selected(); ok {
			m.mode = modeConfirm
		}
	case "+", "=":
		return m, m.setThreshold(m.threshold + thresholdStep)
	case "-":
		return m, m.setThreshold(m.threshold - thresholdStep)
	}
	return m, nil
}

func (m materialsModel) setThreshold(n int) tea.Cmd {
	if n < domain.MinAlertThreshold {
		n = domain.MinAlertThreshold
	}
	if n > domain.MaxAlertThreshold {
		n = domain.MaxAlertThreshold
	}
	if n == m.threshold {
		return nil
	}
	c := m.client
	return func() tea.Msg {
		got, err := c.SetAlertThreshold(context.Background(), n)
		return thresholdSavedMsg{threshold: got, err: err}
	}
}

func (m materialsModel) updateForm(msg tea.KeyMsg) (screen, tea.Cmd) {
	if msg.String() == "esc" {
		m.mode = modeList
		return m, nil
	}
	m.status = ""
	var submit bool
	m.form, submit = m.form.update(msg)
	if !submit {
		return m, nil
	}

	in := domain.MaterialInput{
		Name:     m.form.value(materialName),
		Category: m.form.value(materialCategory),
	}
	if in.Name == "" {
		m.status = "name is required"
		return m, nil
	}
	stock, err := strconv.Atoi(m.form.value(materialStock))
	if err != nil || stock < 0 {
		m.status = "stock must be zero or a positive number"
		return m, nil
	}
	in.TotalStock = stock

	m.mode = modeList
	c := m.client
	return m, func() tea.Msg {
		mat, err := c.CreateMaterial(context.Background(), in)
		if err != nil {
			return materialSavedMsg{err: err}
		}
		return materialSavedMsg{text: fmt.Sprintf("material %q created", mat.Name)}
	}
}

func (m materialsModel) View() string {
	var b strings.Builder
	category := m.categoryFilter()
	if category == "" {
		category = "all"
	}
	fmt.Fprintf(&b, "\n  %s  %s  %s\n\n", titleStyle.Render("Materials"),
		metaStyle.Render("category: "+category),
		warnStyle.Render(fmt.Sprintf("alert at %d%%", m.threshold)))

	if m.mode == modeForm {
		b.WriteString("  " + sectionHeaderStyle.Render("NEW MATERIAL") + "\n")
		b.WriteString(m.form.View(m.frame))
		if m.status != "" {
			b.WriteString("\n  " + errorStyle.Render(m.status))
		}
		return b.String()
	}

	if m.err != "" {
		b.WriteString("  " + errorStyle.Render(m.err))
		return b.String()
	}
	if m.materials == nil {
		b.WriteString("  " + dimStyle.Render("loading..."))
		return b.String()
	}
	if len(m.materials) == 0 {
		b.WriteString("  " + dimStyle.Render("no materials"))
		return b.String()
	}

	for i, mat := range m.materials {
		prefix := "  "
		style := normalStyle
		if i == m.cursor {
			prefix = accentStyle.Render("> ")
			style = selectedStyle
		}
		fmt.Fprintf(&b, "%s%s %s  %s  %s\n", prefix,
			metaStyle.Render(fmt.Sprintf("#%-3d", mat.ID)),
			style.Render(truncStr(mat.Name, 28)),
			dimStyle.Render(truncStr(mat.Category, 16)),
			normalStyle.Render(fmt.Sprintf("%d in stock", mat.TotalStock)))
	}
	if m.mode == modeConfirm {
		if mat, ok := m.selected(); ok {
			fmt.Fprintf(&b, "\n  %s", warnStyle.Render(fmt.Sprintf("delete %s? (y/n)", mat.Name)))
		}
	}
	return b.String()
}
