package app

import (
	"context"
	"encoding/binary"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"safety-training-service/internal/domain"
)

// ProfileRepository reads user display data.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)
}

// CourseTitleLookup resolves the course a quiz belongs to.
type CourseTitleLookup interface {
	CourseTitleForQuiz(ctx context.Context, quizID string) (string, error)
}

// CertificateRenderer writes a certificate document.
type CertificateRenderer interface {
	Render(w io.Writer, cert domain.Certificate) error
}

// CertificateOptions holds the fixed texts of a certificate and the fallbacks
// used when profile or course data is missing.
type CertificateOptions struct {
	DefaultStudentName string
	DefaultCourseTitle string
	Workload           string
	Issuer             string
	// Codes generates validation codes; NewValidationCode when nil.
	Codes  func() string
	Logger *zap.Logger
}

// CertificateService builds completion certificates for finished attempts.
type CertificateService struct {
	quizzes  *QuizService
	profiles ProfileRepository
	courses  CourseTitleLookup
	renderer CertificateRenderer
	opts     CertificateOptions
	log      *zap.Logger
}

func NewCertificateService(quizzes *QuizService, profiles ProfileRepository, courses CourseTitleLookup, renderer CertificateRenderer, opts CertificateOptions) *CertificateService {
	if opts.Codes == nil {
		opts.Codes = NewValidationCode
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &CertificateService{
		quizzes:  quizzes,
		profiles: profiles,
		courses:  courses,
		renderer: renderer,
		opts:     opts,
		log:      opts.Logger,
	}
}

// Certificate assembles the certificate data of the user's finished attempt.
func (s *CertificateService) Certificate(ctx context.Context, userID, quizID string) (domain.Certificate, error) {
	record, err := s.quizzes.Result(ctx, userID, quizID)
	if err != nil {
		return domain.Certificate{}, err
	}

	name := s.opts.DefaultStudentName
	if profile, err := s.profiles.GetProfile(ctx, userID); err != nil {
		s.log.Debug("profile unavailable, using placeholder name", zap.String("user_id", userID), zap.Error(err))
	} else if strings.TrimSpace(profile.FullName) != "" {
		name = profile.FullName
	}

	title := s.opts.DefaultCourseTitle
	if s.courses != nil {
		if t, err := s.courses.CourseTitleForQuiz(ctx, quizID); err != nil {
			s.log.Debug("course title unavailable", zap.String("quiz_id", quizID), zap.Error(err))
		} else if t != "" {
			title = t
		}
	}

	return domain.Certificate{
		StudentName:    name,
		CourseTitle:    title,
		Score:          record.Score,
		CompletedAt:    record.CompletedAt,
		Workload:       s.opts.Workload,
		Issuer:         s.opts.Issuer,
		ValidationCode: s.opts.Codes(),
	}, nil
}

// Render writes the certificate of the user's finished attempt to w.
func (s *CertificateService) Render(ctx context.Context, w io.Writer, userID, quizID string) error {
	cert, err := s.Certificate(ctx, userID, quizID)
	if err != nil {
		return err
	}
	return s.renderer.Render(w, cert)
}

// NewValidationCode returns a short random upper-case base36 code.
func NewValidationCode() string {
	id := uuid.New()
	code := strings.ToUpper(strconv.FormatUint(binary.BigEndian.Uint64(id[:8]), 36))
	if len(code) > 8 {
		code = code[:8]
	}
	return code
}
