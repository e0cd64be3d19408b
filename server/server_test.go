package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/lotplan/config"
	"github.com/katalvlaran/lotplan/logging"
	"github.com/katalvlaran/lotplan/server"
)

const fourPeriods = `{
  "parameters": [{"Name": "Lasagnas To Start", "Value": 50}],
  "demand": [
    {"Period ID": 1, "Demand": 200}, {"Period ID": 2, "Demand": 350},
    {"Period ID": 3, "Demand": 150}, {"Period ID": 4, "Demand": 250}
  ],
  "costs": [
    {"Period ID": 1, "Production Cost": 5.5, "Inventory Cost": 1.3},
    {"Period ID": 2, "Production Cost": 7.2, "Inventory Cost": 1.95},
    {"Period ID": 3, "Production Cost": 8.8, "Inventory Cost": 2.2},
    {"Period ID": 4, "Production Cost": 10.9, "Inventory Cost": 2.0}
  ]
}`

var _ = Describe("Server", func() {
	var e *echo.Echo

	BeforeEach(func() {
		var err error
		e, err = server.BuildServer(config.Default(), logging.NewTestLogger(GinkgoWriter), prometheus.NewRegistry())
		Expect(err).NotTo(HaveOccurred())
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		return rec
	}

	Describe("GET /healthz", func() {
		It("answers ok", func() {
			rec := do(http.MethodGet, "/healthz", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("ok"))
		})
	})

	Describe("POST /api/v1/solve", func() {
		It("returns the optimal plan", func() {
			rec := do(http.MethodPost, "/api/v1/solve", fourPeriods)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp server.SolveResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Status).To(Equal("Optimal"))
			Expect(resp.Objective).NotTo(BeNil())
			Expect(*resp.Objective).To(BeNumerically("~", 7242.5, 1e-6))
			Expect(resp.Tables["production_flow"]).To(HaveLen(4))
			Expect(resp.Tables["costs"]).To(HaveLen(4))
			Expect(resp.Tables["costs"][0]["Total Cost"]).To(BeNumerically("~", 4225, 1e-9))
		})

		It("reports infeasibility as a status, not an error", func() {
			body := strings.Replace(fourPeriods, `"parameters": [`,
				`"parameters": [{"Name": "Production Capacity", "Value": 100}, `, 1)
			rec := do(http.MethodPost, "/api/v1/solve", body)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp server.SolveResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Status).To(Equal("Infeasible"))
			Expect(resp.Objective).To(BeNil())
			Expect(resp.Tables["costs"]).To(BeEmpty())
		})

		It("rejects mismatched period tables with 422", func() {
			body := strings.Replace(fourPeriods, `{"Period ID": 4, "Demand": 250}`,
				`{"Period ID": 4, "Demand": 250}, {"Period ID": 5, "Demand": 10}`, 1)
			rec := do(http.MethodPost, "/api/v1/solve", body)
			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))

			var resp server.ErrorResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Message.Kind).To(Equal("consistency"))
			Expect(resp.Message.Reason).To(ContainSubstring("5"))
		})

		It("rejects malformed JSON with 400", func() {
			rec := do(http.MethodPost, "/api/v1/solve", `{"demand": [`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects wrongly typed cells with 400", func() {
			rec := do(http.MethodPost, "/api/v1/solve", `{"demand": [{"Period ID": "one", "Demand": 1}]}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /api/v1/check", func() {
		It("reports a clean data set", func() {
			rec := do(http.MethodPost, "/api/v1/check", fourPeriods)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp server.CheckResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Clean).To(BeTrue())
			Expect(resp.Report).To(ContainSubstring("Data Type Failures"))
		})

		It("counts failures", func() {
			body := strings.Replace(fourPeriods, `"Demand": 350`, `"Demand": -350`, 1)
			rec := do(http.MethodPost, "/api/v1/check", body)

			var resp server.CheckResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Clean).To(BeFalse())
			Expect(resp.Count).To(Equal(1))
		})
	})

	Describe("GET /metrics", func() {
		It("exposes solve counters after a solve", func() {
			Expect(do(http.MethodPost, "/api/v1/solve", fourPeriods).Code).To(Equal(http.StatusOK))

			rec := do(http.MethodGet, "/metrics", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`lotplan_solves_total{status="Optimal"} 1`))
			Expect(rec.Body.String()).To(ContainSubstring("lotplan_plan_periods 4"))
		})
	})

	Describe("Run", func() {
		It("stops cleanly when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- server.Run(ctx, e, "127.0.0.1:0", logging.NewTestLogger(GinkgoWriter)) }()

			Eventually(e.ListenerAddr).WithTimeout(2 * time.Second).ShouldNot(BeNil())
			cancel()
			Eventually(done).WithTimeout(5 * time.Second).Should(Receive(BeNil()))
		})
	})
})
