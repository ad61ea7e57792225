package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	api "github.com/diogovalentte/mangapark-adapter/src"
	"github.com/diogovalentte/mangapark-adapter/src/config"
	"github.com/diogovalentte/mangapark-adapter/src/sources"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !flagDebug {
			gin.SetMode(gin.ReleaseMode)
		}

		router := api.SetupRouter()
		if err := router.SetTrustedProxies(nil); err != nil {
			return err
		}

		port := config.GlobalConfigs.API.Port
		log.Info().Str("port", port).Strs("sources", sources.GetSourceIDs()).Msg("Starting API server...")

		return router.Run(":" + port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
