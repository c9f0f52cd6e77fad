package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	predictionmock "github.com/gridironpicks/prediction-league/internal/mocks/domain/prediction"
)

func TestPredictionService_SubmitFinal_AlreadySubmittedUsingMockery(t *testing.T) {
	t.Parallel()

	predRepo := predictionmock.NewRepository(t)
	feed := &stubFeed{board: scheduledBoard(4)}
	service := NewPredictionService(NewScoreboardService(feed, nil), predRepo, newMemUserRepo(), nil)

	predRepo.
		On("HasFinal", mock.Anything, testPrincipal.UserID, 4).
		Return(true, nil).
		Once()

	_, err := service.SubmitFinal(context.Background(), testPrincipal, []PredictionPick{
		{Team1: "KC", Score1: 27, Team2: "BUF", Score2: 24},
	})
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("err = %v, want ErrAlreadySubmitted", err)
	}
	predRepo.AssertNotCalled(t, "SubmitFinal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
