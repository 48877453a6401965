package ofx

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser reads OFX/QFX bank and credit card statements. Every movement
// becomes a bank account form.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// preprocess repairs formatting mistakes some banks make in SGML exports.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) Parse(r io.Reader) ([]transaction.Form, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ofx: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("parse ofx: %w", err)
	}

	forms := []transaction.Form{}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			forms = appendForms(forms, stmt.BankTranList.Transactions)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			forms = appendForms(forms, stmt.BankTranList.Transactions)
		}
	}

	slog.Info("parsed ofx statement", "transactions", len(forms))

	return forms, nil
}

func appendForms(forms []transaction.Form, txs []ofxgo.Transaction) []transaction.Form {
	for _, tx := range txs {
		form, ok := convert(tx)
		if !ok {
			slog.Warn("skipping ofx transaction", "fitid", string(tx.FiTID))
			continue
		}

		forms = append(forms, form)
	}

	return forms
}

// convert maps one statement line. Negative amounts are expenses.
func convert(tx ofxgo.Transaction) (transaction.Form, bool) {
	amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(2))
	if err != nil || amount.IsZero() {
		return transaction.Form{}, false
	}

	txType := transaction.TypeIncome
	if amount.IsNegative() {
		txType = transaction.TypeExpense
	}

	posted := tx.DtPosted.Time

	return transaction.Form{
		Description: description(tx),
		Amount:      amount.Abs().String(),
		Type:        txType,
		Account:     transaction.AccountBank,
		Date:        posted.Format(transaction.DateLayout),
		Time:        posted.Format(transaction.TimeLayout),
	}, true
}

// description prefers the payee, then NAME, then MEMO.
func description(tx ofxgo.Transaction) string {
	if tx.Payee != nil && strings.TrimSpace(string(tx.Payee.Name)) != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	if name := strings.TrimSpace(string(tx.Name)); name != "" {
		return name
	}

	return strings.TrimSpace(string(tx.Memo))
}
