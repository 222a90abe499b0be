package vehicles_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"api_vehicle_sales/internal/vehicles"
)

func authorityStub(t *testing.T, records map[int64]vehicles.RemoteVehicle, pushStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/vehicles/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			w.WriteHeader(pushStatus)
			return
		}
		if r.URL.Path == "/api/v1/vehicles/" {
			available := []vehicles.RemoteVehicle{}
			for _, rec := range records {
				if rec.Status == vehicles.StatusAvailable {
					available = append(available, rec)
				}
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(available)
			return
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/v1/vehicles/"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		rec, ok := records[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rec)
	})
	return httptest.NewServer(mux)
}

func TestClientFetchByID(t *testing.T) {
	records := map[int64]vehicles.RemoteVehicle{
		7: {
			ID:           7,
			Make:         "Honda",
			Model:        "Civic",
			Year:         2021,
			Color:        "silver",
			Price:        88000,
			Status:       vehicles.StatusAvailable,
			RegisteredAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
	}
	server := authorityStub(t, records, http.StatusOK)
	defer server.Close()

	client := vehicles.NewClient(server.URL, zaptest.NewLogger(t))

	got, ok := client.FetchByID(context.Background(), 7)
	if !ok {
		t.Fatal("FetchByID reported not found for an existing vehicle")
	}
	if got.Make != "Honda" || got.Price != 88000 || got.Status != vehicles.StatusAvailable {
		t.Errorf("unexpected payload: %+v", got)
	}

	if _, ok := client.FetchByID(context.Background(), 99); ok {
		t.Error("FetchByID reported found for a missing vehicle")
	}
}

func TestClientFetchByID_UnreachableAuthorityLooksAbsent(t *testing.T) {
	server := authorityStub(t, nil, http.StatusOK)
	server.Close() // refuse every connection

	client := vehicles.NewClient(server.URL, zaptest.NewLogger(t))

	if _, ok := client.FetchByID(context.Background(), 7); ok {
		t.Error("FetchByID reported found while the authority is down")
	}
	if got := client.FetchAvailable(context.Background()); len(got) != 0 {
		t.Errorf("FetchAvailable returned %d vehicles while the authority is down", len(got))
	}
	if client.PushStatus(context.Background(), 7, vehicles.StatusSold) {
		t.Error("PushStatus reported success while the authority is down")
	}
}

func TestClientFetchAvailable(t *testing.T) {
	records := map[int64]vehicles.RemoteVehicle{
		1: {ID: 1, Make: "Fiat", Model: "Argo", Price: 60000, Status: vehicles.StatusAvailable},
		2: {ID: 2, Make: "Jeep", Model: "Compass", Price: 150000, Status: vehicles.StatusSold},
	}
	server := authorityStub(t, records, http.StatusOK)
	defer server.Close()

	client := vehicles.NewClient(server.URL, zaptest.NewLogger(t))

	got := client.FetchAvailable(context.Background())
	if len(got) != 1 {
		t.Fatalf("FetchAvailable returned %d vehicles, want 1", len(got))
	}
	if got[0].Make != "Fiat" {
		t.Errorf("unexpected vehicle: %+v", got[0])
	}
}

func TestClientPushStatus(t *testing.T) {
	records := map[int64]vehicles.RemoteVehicle{
		1: {ID: 1, Status: vehicles.StatusAvailable},
	}

	okServer := authorityStub(t, records, http.StatusOK)
	defer okServer.Close()
	client := vehicles.NewClient(okServer.URL, zaptest.NewLogger(t))
	if !client.PushStatus(context.Background(), 1, vehicles.StatusSold) {
		t.Error("PushStatus = false on a success response")
	}

	failServer := authorityStub(t, records, http.StatusInternalServerError)
	defer failServer.Close()
	client = vehicles.NewClient(failServer.URL, zaptest.NewLogger(t))
	if client.PushStatus(context.Background(), 1, vehicles.StatusSold) {
		t.Error("PushStatus = true on a 500 response")
	}
}
