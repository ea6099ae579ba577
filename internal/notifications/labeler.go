package notifications

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lienquan/karahub/backend/internal/models"
	"github.com/lienquan/karahub/backend/internal/repositories"
)

// RepoLabeler resolves report target labels from the backing repositories.
type RepoLabeler struct {
	Songs    repositories.SongRepository
	Users    repositories.UserRepository
	Moments  repositories.MomentRepository
	Comments repositories.CommentRepository
}

func (l *RepoLabeler) Label(ctx context.Context, targetType, targetID string) (string, error) {
	switch targetType {
	case models.ReportTargetSong:
		song, err := l.Songs.GetSongByID(targetID)
		if err != nil {
			return "", err
		}
		return song.Title, nil
	case models.ReportTargetUser:
		user, err := l.Users.GetUserByID(targetID)
		if err != nil {
			return "", err
		}
		return SafeActorName(user.FullName), nil
	case models.ReportTargetMoment:
		moment, err := l.Moments.GetMomentByID(ctx, targetID)
		if err != nil {
			return "", err
		}
		if moment.Description == "" {
			return "untitled moment", nil
		}
		return moment.Description, nil
	case models.ReportTargetComment:
		id, err := strconv.ParseUint(targetID, 10, 32)
		if err != nil {
			return "", fmt.Errorf("invalid comment id %q: %w", targetID, err)
		}
		comment, err := l.Comments.GetCommentByID(uint(id))
		if err != nil {
			return "", err
		}
		return comment.Content, nil
	}
	return "", fmt.Errorf("unknown report target type %q", targetType)
}
