package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
	"github.com/vladislavdragonenkov/salesdash/internal/transport/httpapi"
)

const apiPrefix = "/api/v1"

var loadCategories = []string{"Electronics", "Furniture", "Office Supplies", "Accessories"}

// apiClient вызывает REST API и записывает каждый вызов в collector.
type apiClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	userID  string
	col     *collector
}

func newAPIClient(cfg config, httpClient *http.Client, col *collector) *apiClient {
	return &apiClient{
		baseURL: cfg.baseURL,
		http:    httpClient,
		timeout: cfg.timeout,
		userID:  cfg.userID,
		col:     col,
	}
}

// do отправляет запрос; out может быть nil. Любой код вне 2xx считается ошибкой.
func (c *apiClient) do(name, method, path string, in, out any) (int, error) {
	start := time.Now()
	code, err := c.send(method, path, in, out)
	status := strconv.Itoa(code)
	if code == 0 {
		status = "transport_error"
	}
	c.col.record(name, time.Since(start), status, err == nil)
	return code, err
}

func (c *apiClient) send(method, path string, in, out any) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(httpapi.HeaderUserID, c.userID)
	req.Header.Set(httpapi.HeaderUserName, "Load Test")
	req.Header.Set(httpapi.HeaderUserRole, string(domain.RoleSales))

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	return resp.StatusCode, json.NewDecoder(resp.Body).Decode(out)
}

func runScenario(client *apiClient, mode loadMode, now time.Time) (err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "failed"
		}
		client.col.record(scenarioMethod, time.Since(start), status, err == nil)
	}()

	if mode == modeRead {
		return readDashboard(client)
	}

	saleID, err := createSale(client, now)
	if err != nil {
		return err
	}

	if mode == modeCreateDeliver {
		for _, status := range []domain.SaleStatus{domain.SaleStatusConfirmed, domain.SaleStatusDelivered} {
			req := httpapi.SaleStatusRequest{Status: string(status)}
			if _, err := client.do("UpdateSaleStatus", http.MethodPatch, "/sales/"+saleID+"/status", req, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func createSale(client *apiClient, now time.Time) (string, error) {
	var product httpapi.ProductResponse
	productReq := httpapi.ProductRequest{
		Name:        gofakeit.ProductName(),
		Category:    gofakeit.RandomString(loadCategories),
		Price:       gofakeit.Price(5, 2500),
		Stock:       gofakeit.Number(1, 500),
		Description: gofakeit.Sentence(8),
	}
	if _, err := client.do("CreateProduct", http.MethodPost, "/products", productReq, &product); err != nil {
		return "", err
	}

	var customer httpapi.CustomerResponse
	customerReq := httpapi.CustomerRequest{
		Name:    gofakeit.Company(),
		Email:   gofakeit.Email(),
		Phone:   gofakeit.Phone(),
		Address: gofakeit.Street(),
	}
	if _, err := client.do("CreateCustomer", http.MethodPost, "/customers", customerReq, &customer); err != nil {
		return "", err
	}

	saleDate := now.AddDate(0, 0, -gofakeit.Number(0, 14))
	var sale httpapi.SaleResponse
	saleReq := httpapi.SaleRequest{
		ProductID:    product.ID,
		CustomerID:   customer.ID,
		Quantity:     gofakeit.Number(1, 5),
		SaleDate:     saleDate.Format(time.DateOnly),
		DeliveryDate: saleDate.AddDate(0, 0, gofakeit.Number(1, 21)).Format(time.DateOnly),
	}
	if _, err := client.do("CreateSale", http.MethodPost, "/sales", saleReq, &sale); err != nil {
		return "", err
	}
	if sale.ID == "" {
		return "", errors.New("create sale returned empty id")
	}
	return sale.ID, nil
}

func readDashboard(client *apiClient) error {
	if _, err := client.do("DashboardStats", http.MethodGet, "/dashboard/stats", nil, nil); err != nil {
		return err
	}
	if _, err := client.do("Trend", http.MethodGet, "/dashboard/trend?days=7", nil, nil); err != nil {
		return err
	}
	_, err := client.do("Analytics", http.MethodGet, "/reports/analytics", nil, nil)
	return err
}
