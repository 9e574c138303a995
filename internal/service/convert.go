package service

import (
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/pkg/api"
)

func userToAPI(u *models.User) api.User {
	return api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func groupToAPI(g *models.Group) api.Group {
	return api.Group{
		ID:          g.ID,
		Name:        g.Name,
		InviteToken: g.InviteToken,
		CreatedBy:   g.CreatedBy,
		CreatedAt:   g.CreatedAt,
	}
}

func membersToAPI(members []models.Member) []api.Member {
	out := make([]api.Member, len(members))
	for i, m := range members {
		out[i] = api.Member{UserID: m.UserID, DisplayName: m.DisplayName, JoinedAt: m.JoinedAt}
	}
	return out
}

func expenseToAPI(e *models.Expense, names map[string]string) api.Expense {
	splits := make([]api.ExpenseSplit, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = api.ExpenseSplit{
			UserID:     s.UserID,
			UserName:   names[s.UserID],
			OwedAmount: s.OwedAmount,
		}
	}
	return api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount,
		PaidBy:      e.PaidBy,
		PaidByName:  names[e.PaidBy],
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		Splits:      splits,
	}
}

func settlementToAPI(s *models.Settlement, names map[string]string) api.Settlement {
	return api.Settlement{
		ID:           s.ID,
		GroupID:      s.GroupID,
		FromUserID:   s.FromUserID,
		FromUserName: names[s.FromUserID],
		ToUserID:     s.ToUserID,
		ToUserName:   names[s.ToUserID],
		Amount:       s.Amount,
		Status:       s.Status,
		CreatedAt:    s.CreatedAt,
		SettledAt:    s.SettledAt,
		Note:         s.Note,
	}
}
