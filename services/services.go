// Package services wires the application services around one database handle.
package services

import (
	"coursehub/config"
	"coursehub/services/catalog"
	"coursehub/services/certificate"
	"coursehub/services/grading"
	"coursehub/services/learning"
	"coursehub/services/notify"
	"coursehub/services/promo"
	"coursehub/services/purchase"
	"coursehub/services/questions"
	"coursehub/utils"

	"gorm.io/gorm"
)

type Services struct {
	Mailer       *notify.Mailer
	Promo        *promo.Service
	Purchase     *purchase.Service
	Questions    *questions.Repository
	Grading      *grading.Service
	Catalog      *catalog.Service
	Learning     *learning.Service
	Certificates certificate.Renderer
}

// App is the process-wide service set used by the HTTP controllers.
var App *Services

// New builds every service. mailer may be nil to use the configured sender.
func New(db *gorm.DB, conf *config.Config, mailer *notify.Mailer) *Services {
	if mailer == nil {
		mailer = notify.New(conf)
	}
	promos := promo.NewService(db)
	repo := questions.NewRepository(db)

	var vimeo *utils.VimeoClient
	if conf.VimeoOEmbedURL != "" {
		vimeo = utils.NewVimeoClient(conf.VimeoOEmbedURL)
	}

	return &Services{
		Mailer:    mailer,
		Promo:     promos,
		Purchase:  purchase.NewService(db, promos, mailer, conf.TransferCodeDigits),
		Questions: repo,
		Grading:   grading.NewService(db, repo, mailer, conf.QuizPassingPercent),
		Catalog:   catalog.NewService(db, vimeo),
		Learning:  learning.NewService(db),
		Certificates: certificate.Renderer{
			SiteName:     conf.Site.SiteName,
			TemplatePath: conf.CertTemplatePath,
			FontPath:     conf.CertFontPath,
		},
	}
}

// Init sets App.
func Init(db *gorm.DB, conf *config.Config, mailer *notify.Mailer) {
	App = New(db, conf, mailer)
}
