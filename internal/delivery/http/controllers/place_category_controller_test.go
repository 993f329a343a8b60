package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ourdays/internal/delivery/http/helpers"
	"ourdays/internal/domain"
)

type fakePlaceCategoryService struct {
	err    error
	lastID string
	lastIn domain.PlaceCategoryInput
}

func (f *fakePlaceCategoryService) List(ctx context.Context, userID string) ([]*domain.PlaceCategory, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*domain.PlaceCategory{
		{ID: "pc1", Name: "기본", IsSystem: true, SystemKey: domain.DefaultPlaceCategoryKey},
		{ID: "pc2", Name: "카페"},
	}, nil
}

func (f *fakePlaceCategoryService) Create(ctx context.Context, userID string, in domain.PlaceCategoryInput) (*domain.PlaceCategory, error) {
	f.lastIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.PlaceCategory{ID: "pc3", Name: *in.Name, Color: *in.Color}, nil
}

func (f *fakePlaceCategoryService) Update(ctx context.Context, userID, id string, in domain.PlaceCategoryInput) (*domain.PlaceCategory, error) {
	f.lastID, f.lastIn = id, in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.PlaceCategory{ID: id}, nil
}

func (f *fakePlaceCategoryService) Delete(ctx context.Context, userID, id string) error {
	f.lastID = id
	return f.err
}

func placeCategoryMux(fake *fakePlaceCategoryService) *http.ServeMux {
	ctrl := NewPlaceCategoryController(testLogger, fake)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /places/categories", ctrl.List)
	mux.HandleFunc("POST /places/categories", ctrl.Create)
	mux.HandleFunc("PATCH /places/categories/{id}", ctrl.Update)
	mux.HandleFunc("DELETE /places/categories/{id}", ctrl.Delete)
	return mux
}

func TestPlaceCategoryController_List(t *testing.T) {
	rr := httptest.NewRecorder()
	placeCategoryMux(&fakePlaceCategoryService{}).ServeHTTP(rr, newRequest(http.MethodGet, "/places/categories", "", "alice"))
	require.Equal(t, http.StatusOK, rr.Code)
	var list []domain.PlaceCategory
	decodeData(t, rr, &list)
	require.Len(t, list, 2)
	assert.True(t, list[0].IsSystem)
	assert.Equal(t, domain.DefaultPlaceCategoryKey, list[0].SystemKey)
}

func TestPlaceCategoryController_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "created", body: `{"name":"카페","color":"#112233","icon":"coffee"}`, wantStatus: http.StatusCreated},
		{name: "missing color", body: `{"name":"카페"}`, err: domain.InvalidInputf("name and color are required"), wantStatus: http.StatusBadRequest},
		{name: "not in couple", body: `{"name":"카페","color":"#112233"}`, err: domain.ErrNotInCouple, wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakePlaceCategoryService{err: tt.err}
			rr := httptest.NewRecorder()
			placeCategoryMux(fake).ServeHTTP(rr, newRequest(http.MethodPost, "/places/categories", tt.body, "alice"))
			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusCreated {
				var pc domain.PlaceCategory
				decodeData(t, rr, &pc)
				assert.Equal(t, "#112233", pc.Color)
				assert.Equal(t, "coffee", *fake.lastIn.Icon)
			}
		})
	}
}

func TestPlaceCategoryController_SystemCategoryLocked(t *testing.T) {
	fake := &fakePlaceCategoryService{err: domain.ErrSystemCategoryLocked}
	mux := placeCategoryMux(fake)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, newRequest(http.MethodPatch, "/places/categories/pc1", `{"name":"우리 장소"}`, "alice"))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "pc1", fake.lastID)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, newRequest(http.MethodDelete, "/places/categories/pc1", "", "alice"))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, helpers.ErrCodeBadRequest, errorCode(t, rr))

	fake.err = nil
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, newRequest(http.MethodDelete, "/places/categories/pc2", "", "alice"))
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "pc2", fake.lastID)
}
