package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/cashtrack/internal/importer"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

// ImportModel picks a bank statement file and imports it into the ledger.
type ImportModel struct {
	CommonModel
	importService *importer.Service

	state      importState
	filePicker filepicker.Model
	path       string

	result *transaction.ImportResult
	err    error
}

func NewImportModel(impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".ofx", ".qfx"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService: impSvc,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "Esc: back | Enter: import another"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == importStateResult && msg.Type == tea.KeyEnter {
			m.state = importStateFilePick
			m.result = nil
			m.err = nil

			return m, m.filePicker.Init()
		}

	case importResultMsg:
		m.state = importStateResult
		m.result = msg.result
		m.err = msg.err

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.path = path

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return padded.Render(
			titleStyle.Render("Select a statement (CGD .csv or .ofx)") + "\n\n" + m.filePicker.View(),
		)
	case importStateImporting:
		return padded.Render(fmt.Sprintf("Importing %s...", filepath.Base(m.path)))
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	if m.err != nil {
		return padded.Render(renderErr(m.err))
	}

	var b strings.Builder

	b.WriteString(successStyle.Render(fmt.Sprintf("Imported %d transactions.", len(m.result.Imported))))

	if n := len(m.result.Duplicates); n > 0 {
		fmt.Fprintf(&b, "\n\n%s\n", mutedStyle.Render(fmt.Sprintf("Skipped %d duplicates:", n)))

		for _, d := range m.result.Duplicates {
			fmt.Fprintf(&b, "  %s  %s  %s\n", d.Date, d.Amount, d.Description)
		}
	}

	return padded.Render(b.String())
}

type importResultMsg struct {
	result *transaction.ImportResult
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		format, err := importer.DetectFormat(path)
		if err != nil {
			return importResultMsg{err: err}
		}

		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.importService.Import(ctx, format, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}
