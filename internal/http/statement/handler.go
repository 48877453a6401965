package statement

import (
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cashtrack/internal/http/render"
	"github.com/MrJamesThe3rd/cashtrack/internal/importer"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

const maxUpload = 10 << 20

var validationErrors = []error{
	importer.ErrUnknownFormat,
	importer.ErrInvalidStatement,
	transaction.ErrMissingDescription,
	transaction.ErrInvalidAmount,
	transaction.ErrInvalidType,
	transaction.ErrInvalidAccount,
}

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importStatement)
	r.Post("/preview", h.preview)
}

type formResponse struct {
	Description string              `json:"description"`
	Amount      string              `json:"amount"`
	Type        transaction.Type    `json:"type"`
	Account     transaction.Account `json:"account"`
	Date        string              `json:"date"`
	Time        string              `json:"time"`
}

type transactionResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Date        string `json:"date"`
}

type importResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
	Duplicates   []formResponse        `json:"duplicates"`
}

func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	file, format, ok := readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.importSvc.Import(r.Context(), format, file)
	if err != nil {
		render.Fail(w, err, validationErrors...)
		return
	}

	resp := importResponse{
		Imported:     len(result.Imported),
		Transactions: make([]transactionResponse, 0, len(result.Imported)),
		Duplicates:   toFormResponses(result.Duplicates),
	}

	for _, tx := range result.Imported {
		resp.Transactions = append(resp.Transactions, transactionResponse{
			ID:          tx.ID,
			Description: tx.Description,
			Amount:      tx.Amount.String(),
			Type:        string(tx.Type),
			Date:        tx.Date,
		})
	}

	status := http.StatusCreated
	if resp.Imported == 0 {
		status = http.StatusOK
	}

	render.JSON(w, status, resp)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	file, format, ok := readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	forms, err := h.importSvc.Preview(r.Context(), format, file)
	if err != nil {
		render.Fail(w, err, validationErrors...)
		return
	}

	render.JSON(w, http.StatusOK, toFormResponses(forms))
}

// readUpload returns the multipart "file" field and its format. The
// "format" field names the format; without it the format is guessed from
// the file name.
func readUpload(w http.ResponseWriter, r *http.Request) (multipart.File, importer.Format, bool) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		render.Error(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		render.Error(w, http.StatusBadRequest, "file field is required")
		return nil, "", false
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format, err = importer.DetectFormat(header.Filename)
		if err != nil {
			file.Close()
			render.Error(w, http.StatusBadRequest, err.Error())

			return nil, "", false
		}
	}

	return file, format, true
}

func toFormResponses(forms []transaction.Form) []formResponse {
	resp := make([]formResponse, 0, len(forms))
	for _, f := range forms {
		resp = append(resp, formResponse{
			Description: f.Description,
			Amount:      f.Amount,
			Type:        f.Type,
			Account:     f.Account,
			Date:        f.Date,
			Time:        f.Time,
		})
	}

	return resp
}
