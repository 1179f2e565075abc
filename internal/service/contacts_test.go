package service

import (
	"context"
	"testing"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestBuildContactURL(t *testing.T) {
	tests := []struct {
		typ  models.ContactType
		raw  string
		want string
	}{
		{models.ContactWhatsApp, "+55 (11) 98765-4321", "https://wa.me/5511987654321"},
		{models.ContactWhatsApp, "https://wa.me/5511", "https://wa.me/5511"},
		{models.ContactWhatsApp, "sem número", ""},
		{models.ContactPhone, "11 3333-4444", "tel:+1133334444"},
		{models.ContactWebsite, "elasnojogo.com.br", "https://elasnojogo.com.br"},
		{models.ContactWebsite, "HTTP://site.com", "HTTP://site.com"},
		{models.ContactInstagram, " https://instagram.com/marta ", "https://instagram.com/marta"},
		{models.ContactYouTube, "   ", ""},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, BuildContactURL(tt.typ, tt.raw), "%s %q", tt.typ, tt.raw)
	}
}

func TestNormalizeContacts(t *testing.T) {
	in := []ContactInput{
		{Type: "WhatsApp", Title: "Zap", URL: "11 99999-0000"},
		{Type: "fax", Title: "Fax", URL: "123"},
		{Type: "whatsapp", Title: "Outro zap", URL: "11 88888-0000"},
		{Type: "website", Title: "Site", URL: "site.com"},
	}

	got := NormalizeContacts(in)

	// Четвёртый элемент за пределом MaxContacts; fax отброшен; дубликат whatsapp отброшен.
	require.Len(t, got, 1)
	require.Equal(t, models.ContactWhatsApp, got[0].Type)
	require.Equal(t, "https://wa.me/11999990000", got[0].URL)
	require.Equal(t, "whatsapp", got[0].IconName)
	require.Equal(t, 0, got[0].OrderIndex)
}

func TestNormalizeContacts_TitleAndOrder(t *testing.T) {
	long := ""
	for i := 0; i < 60; i++ {
		long += "é"
	}

	got := NormalizeContacts([]ContactInput{
		{Type: "instagram", Title: " ", URL: "https://instagram.com/x"},
		{Type: "x", Title: long, URL: "https://x.com/marta", IconName: "Twitter"},
		{Type: "tiktok", Title: "TikTok", URL: ""},
	})

	require.Len(t, got, 1)
	require.Equal(t, 1, got[0].OrderIndex)
	require.Len(t, []rune(got[0].Title), contactTitleMaxLen)
	require.Equal(t, "twitter", got[0].IconName)
}

func TestReplaceContacts(t *testing.T) {
	svc, m := newSvc(t)

	_, err := svc.ReplaceContacts(context.Background(), uuid.Nil, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	pid := uuid.New()
	m.st.EXPECT().ReplaceContacts(gomock.Any(), pid, gomock.Len(1)).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, cs []models.Contact) ([]models.Contact, error) {
			for i := range cs {
				cs[i].ProfileID = pid
			}
			return cs, nil
		})

	out, err := svc.ReplaceContacts(context.Background(), pid, []ContactInput{
		{Type: "telefone", Title: "Telefone", URL: "(81) 3333-0000"},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "tel:+8133330000", out[0].URL)

	m.st.EXPECT().ContactsByProfile(gomock.Any(), pid).Return(out, nil)
	got, err := svc.ContactsByProfile(context.Background(), pid)
	require.NoError(t, err)
	require.Equal(t, out, got)
}
