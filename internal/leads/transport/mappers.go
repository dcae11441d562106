package transport

import "sales_pipeline_backend/internal/leads/repository"

func ToLeadResponse(lead repository.Lead) LeadResponse {
	raw := lead.RawData
	if raw == nil {
		raw = map[string]any{}
	}
	return LeadResponse{
		ID:               lead.ID,
		BusinessName:     lead.BusinessName,
		Address:          lead.Address,
		Website:          lead.Website,
		Phone:            lead.Phone,
		Email:            lead.Email,
		Industry:         lead.Industry,
		Description:      lead.Description,
		PainPoint:        lead.PainPoint,
		SuggestedMessage: lead.SuggestedMessage,
		Stage:            lead.Stage,
		Status:           lead.Status,
		DealValue:        lead.DealValue,
		WonAt:            lead.WonAt,
		RawData:          raw,
		CreatedAt:        lead.CreatedAt,
		LastActionAt:     lead.LastActionAt,
		UpdatedAt:        lead.UpdatedAt,
	}
}

func ToActivityResponse(a repository.Activity) ActivityResponse {
	return ActivityResponse{
		ID:         a.ID,
		LeadID:     a.LeadID,
		ActionType: a.ActionType,
		Metadata:   a.Metadata,
		CreatedAt:  a.CreatedAt,
	}
}
