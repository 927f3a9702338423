package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"anchor-sync/internal/config"

	"go.uber.org/zap"
)

const walletReferer = "https://hot.taobao.com/hw/union/console/wallet/predict-order"

// WalletConnector reads predicted orders from the wallet console API
type WalletConnector struct {
	baseURL   string
	csrfToken string
	pageSize  int
	client    *http.Client
	logger    *zap.Logger
}

// NewWalletConnector builds the page fetcher. Requests carry no timeout of
// their own; a stalled call holds only its anchor's pipeline.
func NewWalletConnector(cfg *config.Config, logger *zap.Logger) *WalletConnector {
	pageSize := cfg.PageSize
	if pageSize < 1 {
		pageSize = 100
	}
	return &WalletConnector{
		baseURL:   cfg.APIBaseURL,
		csrfToken: cfg.CSRFToken,
		pageSize:  pageSize,
		client:    &http.Client{},
		logger:    logger,
	}
}

type walletResponse struct {
	Success bool `json:"success"`
	Data    *struct {
		OrderPage *struct {
			DataList   []RawOrder `json:"dataList"`
			TotalCount FlexString `json:"totalCount"`
		} `json:"orderPage"`
	} `json:"data"`
	Ret []string `json:"ret"`
	Msg string   `json:"msg"`
}

func (w *WalletConnector) FetchPage(ctx context.Context, req PageRequest) PageResult {
	params := url.Values{}
	params.Set("_csrf", w.csrfToken)
	params.Set("dateType", "0")
	params.Set("endTime", req.EndTime)
	params.Set("orderStatus", "-1")
	params.Set("pageNo", strconv.Itoa(req.PageNo))
	params.Set("pageSize", strconv.Itoa(w.pageSize))
	params.Set("startTime", req.StartTime)
	params.Set("type", "1")

	requestURL := w.baseURL + "?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return failed(KindTransport, err.Error(), "")
	}
	httpReq.Header.Set("Accept", "application/json, text/plain, */*")
	httpReq.Header.Set("Accept-Language", "zh-CN,zh;q=0.9")
	httpReq.Header.Set("Cookie", req.Cookie)
	httpReq.Header.Set("Referer", walletReferer)
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36")
	httpReq.Header.Set("X-XSRF-TOKEN", w.csrfToken)

	w.logger.Debug("Fetching order page",
		zap.String("anchor", req.AnchorName),
		zap.Int("page", req.PageNo),
		zap.String("start_time", req.StartTime),
		zap.String("end_time", req.EndTime),
	)

	resp, err := w.client.Do(httpReq)
	if err != nil {
		return failed(KindTransport, err.Error(), "")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failed(KindTransport, "failed to read response: "+err.Error(), "")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		return failed(KindHTTP, msg, string(body))
	}

	return parseWalletBody(body)
}

func parseWalletBody(body []byte) PageResult {
	var data walletResponse
	if err := json.Unmarshal(body, &data); err != nil {
		if strings.HasPrefix(strings.TrimSpace(string(body)), "<") {
			// login page instead of JSON
			return failed(KindCredentialExpired, CredentialExpiredMarker+": cookie invalid, login required", "")
		}
		return failed(KindParse, "failed to parse response: "+err.Error(), "")
	}

	if data.Success && data.Data != nil && data.Data.OrderPage != nil {
		orders := data.Data.OrderPage.DataList
		if orders == nil {
			orders = []RawOrder{}
		}
		return PageResult{
			Success:    true,
			Orders:     orders,
			TotalCount: data.Data.OrderPage.TotalCount.IntOr(0),
		}
	}

	msg := "unknown error"
	if len(data.Ret) > 0 {
		msg = strings.Join(data.Ret, ": ")
	} else if data.Msg != "" {
		msg = data.Msg
	}

	kind := KindService
	if IsCredentialExpired(msg) {
		kind = KindCredentialExpired
	}
	return failed(kind, msg, "")
}

func failed(kind ErrorKind, msg, raw string) PageResult {
	return PageResult{
		Success: false,
		Orders:  []RawOrder{},
		Err: &FetchError{
			Kind:    kind,
			Message: msg,
			RawBody: raw,
		},
	}
}
