package v1

import (
	"encoding/json"

	"github.com/shenikar/emergency_dispatch/internal/geo"
	"github.com/shenikar/emergency_dispatch/internal/models"
)

// decodeLocation разбирает точку из тела запроса. Строка JSON трактуется как hex EWKB.
func decodeLocation(raw json.RawMessage) (geo.Point, error) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return geo.Point{}, &geo.DecodeError{Format: "hex-wkb", Reason: err.Error()}
		}
		return geo.DecodePoint([]byte(s))
	}
	return geo.DecodePoint(raw)
}

func toLocationDTO(p geo.Point) LocationDTO {
	return LocationDTO{Latitude: p.Lat, Longitude: p.Lon}
}

// DTOToIncidentModel преобразует DTO создания в доменную модель
func DTOToIncidentModel(dto CreateIncidentRequest, location geo.Point) *models.Incident {
	return &models.Incident{
		ReporterID:  dto.ReporterID,
		Location:    location,
		Category:    dto.Category,
		Severity:    dto.Severity,
		Description: dto.Description,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:                    model.ID,
		ReporterID:            model.ReporterID,
		Location:              toLocationDTO(model.Location),
		Category:              model.Category,
		Severity:              model.Severity,
		Description:           model.Description,
		Status:                string(model.Status),
		AssignedResourceID:    model.AssignedResourceID,
		DestinationFacilityID: model.DestinationFacilityID,
		Version:               model.Version,
		CreatedAt:             model.CreatedAt,
		UpdatedAt:             model.UpdatedAt,
		ResolvedAt:            model.ResolvedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

func ModelToAssignmentResponse(model *models.Assignment) *AssignmentResponse {
	return &AssignmentResponse{
		ID:          model.ID,
		IncidentID:  model.IncidentID,
		ResourceID:  model.ResourceID,
		Outcome:     string(model.Outcome),
		ETASeconds:  model.ETASeconds,
		AssignedAt:  model.AssignedAt,
		RespondedAt: model.RespondedAt,
		ClosedAt:    model.ClosedAt,
	}
}

func ModelToResourceResponse(model *models.Resource) *ResourceResponse {
	resp := &ResourceResponse{
		ID:                model.ID,
		Tag:               model.Tag,
		Category:          model.Category,
		OperatorID:        model.OperatorID,
		IsAvailable:       model.IsAvailable,
		FacilityID:        model.FacilityID,
		LocationUpdatedAt: model.LocationUpdatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
	if model.Location != nil {
		loc := toLocationDTO(*model.Location)
		resp.Location = &loc
	}
	return resp
}

func ModelsToResourceResponses(models []*models.Resource) []*ResourceResponse {
	responses := make([]*ResourceResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToResourceResponse(model)
	}
	return responses
}

func ModelToFacilityResponse(f *models.Facility) *FacilityResponse {
	return &FacilityResponse{
		ID:       f.ID,
		Name:     f.Name,
		Location: toLocationDTO(f.Location),
		Phone:    f.Phone,
		Address:  f.Address,
	}
}

func ModelsToFacilityResponses(facilities []*models.Facility) []*FacilityResponse {
	responses := make([]*FacilityResponse, len(facilities))
	for i, f := range facilities {
		responses[i] = ModelToFacilityResponse(f)
	}
	return responses
}
