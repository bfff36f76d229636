package http

import (
	"errors"
	"net/http"

	"flazz/internal/core"
	"flazz/internal/export"
	applog "flazz/internal/log"
	"flazz/internal/services"

	"github.com/shopspring/decimal"
)

type (
	transactionJSON struct {
		Category    string `json:"category"`
		Amount      string `json:"amount"`
		Timestamp   string `json:"timestamp"`
		Description string `json:"description"`
	}

	accountJSON struct {
		Ledger           string            `json:"ledger"`
		AccountID        string            `json:"account_id"`
		Holder           string            `json:"holder"`
		Currency         string            `json:"currency"`
		Balance          string            `json:"balance"`
		BalanceFormatted string            `json:"balance_formatted"`
		Transactions     []transactionJSON `json:"transactions"`
	}

	pointJSON struct {
		Timestamp string `json:"timestamp"`
		Amount    string `json:"amount"`
	}

	categoryJSON struct {
		Category string `json:"category"`
		Amount   string `json:"amount"`
	}

	chartsJSON struct {
		SpendingPattern  []categoryJSON `json:"spending_pattern"`
		DepositHistory   []pointJSON    `json:"deposit_history"`
		SpendingHistory  []pointJSON    `json:"spending_history"`
		TransactionStats []pointJSON    `json:"transaction_stats"`
	}

	notificationJSON struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}

	resultJSON struct {
		OK            bool               `json:"ok"`
		Error         string             `json:"error,omitempty"`
		Ref           string             `json:"ref,omitempty"`
		Transaction   *transactionJSON   `json:"transaction,omitempty"`
		Balance       string             `json:"balance"`
		Notifications []notificationJSON `json:"notifications,omitempty"`
	}

	pageData struct {
		LedgerName    string
		AccountID     string
		Holder        string
		Balance       decimal.Decimal
		History       []string
		Categories    []string
		Formats       []export.Format
		DefaultFormat export.Format
		Charts        []chartView
		Notifications []services.Notification
	}
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if resp := RequireMethod(r, http.MethodGet, http.MethodHead); resp != nil {
		resp.Write(w)
		return
	}
	s.render(w, r, "index.html")
}

// handleCardPartial renders balance, history, charts and pending notifications.
func (s *Server) handleCardPartial(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	s.render(w, r, "card.html")
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	snap := s.svc.Snapshot()
	data := pageData{
		LedgerName:    snap.LedgerName,
		AccountID:     snap.AccountID,
		Holder:        snap.Holder,
		Balance:       snap.Balance,
		Categories:    core.Categories,
		Formats:       s.svc.Formats(),
		DefaultFormat: s.svc.DefaultFormat(),
		Charts:        chartViews(snap.Charts),
	}
	for _, t := range snap.History {
		data.History = append(data.History, t.String())
	}
	if s.inbox != nil {
		data.Notifications = s.inbox.Drain()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed", applog.FieldError, err, "template", name)
		http.Error(w, "rendering failed", http.StatusInternalServerError)
	}
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parsePost(w, r)
	if !ok {
		return
	}
	tx, err := s.svc.AddMoney(r.Context(), p.Get("amount"))
	s.respond(w, r, err, "Added "+core.FormatCurrency(tx.Amount)+" "+core.Currency, "", &tx)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parsePost(w, r)
	if !ok {
		return
	}
	tx, err := s.svc.UseMoney(r.Context(), p.Get("amount"), p.Get("category"))
	s.respond(w, r, err, "Used "+core.FormatCurrency(tx.Amount.Abs())+" "+core.Currency+" for "+tx.Category, "", &tx)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parsePost(w, r)
	if !ok {
		return
	}
	to := p.Get("to")
	err := s.svc.Transfer(r.Context(), to, p.Get("amount"))
	s.respond(w, r, err, "Transferred to "+to, "", nil)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parsePost(w, r)
	if !ok {
		return
	}
	var ref string
	name := p.Get("format")
	if name == "" {
		name = string(s.svc.DefaultFormat())
	}
	format, err := export.ParseFormat(name)
	dest := p.Get("name")
	if err == nil {
		err = validateDestination(dest)
	}
	if err == nil {
		ref, err = s.svc.Export(r.Context(), format, dest)
	}
	s.respond(w, r, err, "Exported to "+ref, ref, nil)
}

func (s *Server) handleAccountJSON(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	snap := s.svc.Snapshot()
	out := accountJSON{
		Ledger:           snap.LedgerName,
		AccountID:        snap.AccountID,
		Holder:           snap.Holder,
		Currency:         core.Currency,
		Balance:          snap.Balance.StringFixed(2),
		BalanceFormatted: core.FormatCurrency(snap.Balance),
		Transactions:     make([]transactionJSON, 0, len(snap.History)),
	}
	for _, t := range snap.History {
		out.Transactions = append(out.Transactions, toTransactionJSON(t))
	}
	NewResponse().JSON(out).Write(w)
}

func (s *Server) handleChartsJSON(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	c := s.svc.Snapshot().Charts
	out := chartsJSON{
		SpendingPattern:  make([]categoryJSON, 0, len(c.SpendingPattern)),
		DepositHistory:   toPointsJSON(c.DepositHistory),
		SpendingHistory:  toPointsJSON(c.SpendingHistory),
		TransactionStats: toPointsJSON(c.TransactionStats),
	}
	for _, a := range c.SpendingPattern {
		out.SpendingPattern = append(out.SpendingPattern, categoryJSON{Category: a.Name, Amount: a.Amount.StringFixed(2)})
	}
	NewResponse().JSON(out).Write(w)
}

// parsePost enforces POST and parses the body, writing the error response itself.
func (s *Server) parsePost(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, bool) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return nil, false
	}
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.logger.WarnContext(r.Context(), "Parse body error", applog.FieldError, err, applog.FieldPath, r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return nil, false
	}
	return p, true
}

// respond writes the outcome of a card action. Notifications raised by the
// action are drained from the inbox and returned with the response.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, err error, success, ref string, tx *core.Transaction) {
	var notes []services.Notification
	if s.inbox != nil {
		notes = s.inbox.Drain()
	}
	balance := s.svc.Snapshot().Balance

	status := http.StatusOK
	message := success
	if err != nil {
		status = statusFor(err)
		message = userMessage(err)
		if errors.Is(err, core.ErrInsufficientFunds) && len(notes) > 0 {
			message = notes[len(notes)-1].Message
		}
		if status == http.StatusInternalServerError {
			s.logger.ErrorContext(r.Context(), "Card action failed", applog.FieldError, err, applog.FieldPath, r.URL.Path)
		}
	}

	if wantsJSON(r) {
		out := resultJSON{OK: err == nil, Ref: ref, Balance: balance.StringFixed(2)}
		if err != nil {
			out.Error = message
		} else if tx != nil {
			t := toTransactionJSON(*tx)
			out.Transaction = &t
		}
		for _, n := range notes {
			out.Notifications = append(out.Notifications, notificationJSON{Title: n.Title, Message: n.Message})
		}
		NewResponse().Status(status).JSON(out).Write(w)
		return
	}

	var resp *ResponseBuilder
	if err != nil {
		resp = ErrorResponse(status, message)
	} else {
		resp = SuccessResponse(message).TriggerFormReset()
	}
	resp.TriggerCardUpdated()
	for _, n := range notes {
		kind := NotificationSuccess
		if n.Title == "Insufficient Balance" {
			kind = NotificationWarning
		}
		resp.TriggerNotification(kind, n.Title, n.Message)
	}
	if status >= http.StatusInternalServerError {
		resp.TriggerNotification(NotificationError, "Action Failed", message)
	}
	resp.Write(w)
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		Category:    t.Category,
		Amount:      t.Amount.StringFixed(2),
		Timestamp:   t.FormattedTimestamp(),
		Description: t.String(),
	}
}

func toPointsJSON(points []core.Point) []pointJSON {
	out := make([]pointJSON, 0, len(points))
	for _, p := range points {
		out = append(out, pointJSON{Timestamp: p.At.Format(core.TimestampLayout), Amount: p.Amount.StringFixed(2)})
	}
	return out
}
