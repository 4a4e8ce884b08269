package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/config"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-hub/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleSystemAdmin})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleSystemAdmin})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleSystemAdmin})).Delete("/", h.DeleteUser)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSystemAdmin})).Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/organizations", func(r chi.Router) {
			r.Get("/", h.GetAllOrganizations)
			r.Route("/{orgID}", func(r chi.Router) {
				r.Use(h.organization)
				r.Get("/", h.GetOrganization)

				// 组织内的数据只对组织成员开放
				r.Group(func(r chi.Router) {
					r.Use(h.myInfo)
					r.Use(h.requireOrgMember)

					r.Route("/attendance", func(r chi.Router) {
						r.Get("/week", h.GetMyWeekStatuses)
						r.Get("/records", h.GetMyAttendance)
						r.With(h.preventInactiveMember).Post("/check-in", h.CreateCheckIn)
					})

					r.Route("/events", func(r chi.Router) {
						r.Get("/", h.GetOrganizationEvents)
						r.With(h.RequiredRole([]domain.Role{domain.RoleOrgAdmin, domain.RoleSystemAdmin})).Post("/", h.CreateEvent)
						r.Route("/{eventID}", func(r chi.Router) {
							r.Use(h.event)
							r.With(h.RequiredRole([]domain.Role{domain.RoleOrgAdmin, domain.RoleSystemAdmin})).Delete("/", h.DeleteEvent)
						})
					})

					r.Route("/excuses", func(r chi.Router) {
						r.With(h.preventInactiveMember).Post("/", h.SubmitExcuseRequest)
						r.Get("/", h.GetMyExcuses)
						// 只有管理员能够查看待审批列表，防止泄露其他成员的信息
						r.With(h.RequiredRole([]domain.Role{domain.RoleOrgAdmin, domain.RoleSystemAdmin})).Get("/pending", h.GetPendingExcuses)
						r.Route("/{excuseID}", func(r chi.Router) {
							r.Use(h.excuseRequest)
							r.With(h.RequiredRole([]domain.Role{domain.RoleOrgAdmin, domain.RoleSystemAdmin})).Patch("/review", h.ReviewExcuseRequest)
						})
					})
				})
			})
		})
	})
}
