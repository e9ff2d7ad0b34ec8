package tests

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"carpool/internal/app"
	"carpool/internal/domain"
	"carpool/internal/handler"
	"carpool/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(f *fixture) *gin.Engine {
	return app.NewRouter(app.RouterDeps{
		UserHandler:  handler.NewUserHandler(f.userSvc, f.images, 1<<20),
		RouteHandler: handler.NewRouteHandler(f.routeSvc, f.matchSvc),
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func assertNoPassword(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if strings.Contains(strings.ToLower(rec.Body.String()), "password") {
		t.Errorf("response leaks a password field: %s", rec.Body.String())
	}
}

func TestAPI_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	router := newTestRouter(f)

	rec := doJSON(t, router, http.MethodPost, "/register", map[string]string{
		"name": "Sara", "phoneNumber": "555", "password": "pw", "role": "driver",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	assertNoPassword(t, rec)

	rec = doJSON(t, router, http.MethodPost, "/register", map[string]string{
		"name": "Other", "phoneNumber": "555", "password": "pw2", "role": "rider",
	})
	if rec.Code != http.StatusPaymentRequired {
		t.Errorf("duplicate register: expected 402, got %d", rec.Code)
	}
	if n := f.users.CountByPhone("555"); n != 1 {
		t.Errorf("expected exactly 1 user for 555, got %d", n)
	}

	rec = doJSON(t, router, http.MethodPost, "/register", map[string]string{"name": "X"})
	if rec.Code != http.StatusNotAcceptable {
		t.Errorf("incomplete register: expected 406, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/login", map[string]string{"phoneNumber": "555", "password": "pw"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	assertNoPassword(t, rec)

	var user domain.PublicUser
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if user.Name != "Sara" || user.PhoneNumber != "555" {
		t.Errorf("unexpected login response: %+v", user)
	}

	rec = doJSON(t, router, http.MethodPost, "/login", map[string]string{"phoneNumber": "555", "password": "wrong"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("wrong password: expected 404, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/login", map[string]string{"phoneNumber": "555"})
	if rec.Code != http.StatusNotAcceptable {
		t.Errorf("missing password: expected 406, got %d", rec.Code)
	}
}

func TestAPI_GetUserByPhone(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	router := newTestRouter(f)
	driver := f.register(t, "Sara", "0100", "driver")
	f.createRoute(t, service.RouteFields{
		DriverID: driver.ID, Date: f.at(2024, 3, 10, 8, 0), From: "Cairo", To: "Giza", Capacity: 3, Cost: 50,
	})

	rec := doJSON(t, router, http.MethodGet, "/users/0100", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	assertNoPassword(t, rec)

	var profile domain.UserProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("failed to decode profile: %v", err)
	}
	if profile.ID != driver.ID || len(profile.Routes) != 1 {
		t.Errorf("unexpected profile: %+v", profile)
	}

	rec = doJSON(t, router, http.MethodGet, "/users/0999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown phone: expected 404, got %d", rec.Code)
	}
}

func newProfileUpload(t *testing.T, userDoc string, image []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("user", userDoc); err != nil {
		t.Fatalf("failed to write user field: %v", err)
	}
	if image != nil {
		part, err := w.CreateFormFile("carImage", "car.jpg")
		if err != nil {
			t.Fatalf("failed to create file part: %v", err)
		}
		part.Write(image)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestAPI_UpdateProfileWithCarImage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	router := newTestRouter(f)
	user := f.register(t, "Sara", "0100", "rider")

	body, contentType := newProfileUpload(t, `{"_id":"`+user.ID+`","role":"driver","car":"Kia Rio"}`, []byte("jpeg bytes"))
	req := httptest.NewRequest(http.MethodPut, "/users", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	assertNoPassword(t, rec)

	var updated domain.PublicUser
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if updated.Role != "driver" || updated.Car != "Kia Rio" || updated.CarImage == "" {
		t.Errorf("unexpected updated profile: %+v", updated)
	}
	if f.images.Count() != 1 {
		t.Errorf("expected 1 stored image, got %d", f.images.Count())
	}
}

func TestAPI_UpdateProfileUnknownUser_DropsUploadedImage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	router := newTestRouter(f)

	body, contentType := newProfileUpload(t, `{"id":"6f1c3c56-8d7e-4a53-9a8e-1b2c3d4e5f60","car":"Lada"}`, []byte("jpeg bytes"))
	req := httptest.NewRequest(http.MethodPut, "/users", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if f.images.Count() != 0 {
		t.Errorf("expected uploaded image to be removed, got %d stored", f.images.Count())
	}
}

func TestAPI_UpdateProfileJSON(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	router := newTestRouter(f)
	user := f.register(t, "Sara", "0100", "rider")

	rec := doJSON(t, router, http.MethodPut, "/users", map[string]string{"id": user.ID, "name": "Sara M."})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := f.users.GetUser(user.ID).Name; got != "Sara M." {
		t.Errorf("expected name Sara M., got %s", got)
	}

	rec = doJSON(t, router, http.MethodPut, "/users", map[string]string{"name": "No ID"})
	if rec.Code != http.StatusNotAcceptable {
		t.Errorf("missing id: expected 406, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, "/users", map[string]string{"id": user.ID, "role": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank role: expected 400, got %d", rec.Code)
	}
}

func routeFieldsFor(driverID string) map[string]any {
	return map[string]any{
		"driverId": driverID,
		"date":     "2024-03-10T08:00",
		"from":     "Cairo",
		"to":       "Giza",
		"capacity": 3,
		"cost":     50,
	}
}

func TestAPI_RouteLifecycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	router := newTestRouter(f)
	driver := f.register(t, "Sara", "0100", "driver")

	rec := doJSON(t, router, http.MethodPost, "/routes", routeFieldsFor(driver.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() != 0 {
		t.Errorf("create: expected empty body, got %s", rec.Body.String())
	}
	if f.routes.CountRoutes() != 1 {
		t.Fatalf("expected 1 route, got %d", f.routes.CountRoutes())
	}

	rec = doJSON(t, router, http.MethodGet, "/routes/"+driver.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	assertNoPassword(t, rec)

	var listed []domain.DriverRoute
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].Driver == nil || listed[0].Driver.Name != "Sara" {
		t.Fatalf("unexpected list: %+v", listed)
	}
	routeID := listed[0].ID

	update := routeFieldsFor(driver.ID)
	update["capacity"] = 1
	rec = doJSON(t, router, http.MethodPut, "/routes/"+routeID, update)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.routes.GetRoute(routeID).Capacity != 1 {
		t.Error("expected capacity to be updated")
	}

	rec = doJSON(t, router, http.MethodDelete, "/routes/"+routeID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/routes/"+routeID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", rec.Code)
	}
	if f.routes.CountRoutes() != 0 {
		t.Errorf("expected 0 routes, got %d", f.routes.CountRoutes())
	}
}

func TestAPI_CreateRouteInvalidInput(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{name: "zero capacity", mutate: func(b map[string]any) { b["capacity"] = 0 }},
		{name: "negative cost", mutate: func(b map[string]any) { b["cost"] = -5 }},
		{name: "missing from", mutate: func(b map[string]any) { delete(b, "from") }},
		{name: "missing date", mutate: func(b map[string]any) { delete(b, "date") }},
		{name: "bad date", mutate: func(b map[string]any) { b["date"] = "10/03/2024" }},
		{name: "fractional capacity", mutate: func(b map[string]any) { b["capacity"] = 1.5 }},
		{name: "capacity beyond column range", mutate: func(b map[string]any) { b["capacity"] = 3_000_000_000 }},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			router := newTestRouter(f)

			body := routeFieldsFor("6f1c3c56-8d7e-4a53-9a8e-1b2c3d4e5f60")
			tc.mutate(body)

			rec := doJSON(t, router, http.MethodPost, "/routes", body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}

			var resp handler.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error == "" {
				t.Errorf("expected error body, got %s", rec.Body.String())
			}
			if f.routes.CountRoutes() != 0 {
				t.Error("expected no route to be stored")
			}
		})
	}
}

func TestAPI_FilterRoutes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	router := newTestRouter(f)
	driver := f.register(t, "Sara", "0100", "driver")

	rec := doJSON(t, router, http.MethodPost, "/routes", routeFieldsFor(driver.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/routes/filter", map[string]string{
		"date": "2024-03-10", "from": "Cairo", "to": "Giza",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("filter: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	assertNoPassword(t, rec)

	var results []domain.MatchedRoute
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("failed to decode results: %v", err)
	}
	if len(results) != 1 || results[0].Driver == nil || results[0].Driver.PhoneNumber != "0100" {
		t.Fatalf("unexpected results: %+v", results)
	}

	rec = doJSON(t, router, http.MethodPost, "/routes/filter", map[string]string{
		"date": "2024-03-11", "from": "Cairo", "to": "Giza",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("filter: expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty list, got %s", rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/routes/filter", map[string]string{"from": "Cairo", "to": "Giza"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing date: expected 400, got %d", rec.Code)
	}
}
