package cmd

import (
	"encoding/json"

	"job_scoring_backend/internal/config"
	"job_scoring_backend/internal/repository"
	"job_scoring_backend/internal/scoring"
	"job_scoring_backend/internal/service"
	"job_scoring_backend/pkg/database"
	"job_scoring_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// rescoreCmd 手动触发：职位题目修改后重新为已有申请评分
var rescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "Re-score every stored application of a job against its current questions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetString("job")

		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return err
		}
		logger.InitLogger(cfg)
		defer logger.Log.Sync()

		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
		if err != nil {
			return err
		}

		var opts []scoring.Option
		if cfg.Scoring.StrictTypes {
			opts = append(opts, scoring.WithStrictTypes())
		}

		// 不走缓存，直接读库
		jobs := service.NewJobService(repository.NewJobRepository(db), nil, 0)
		svc := service.NewJobApplicationService(repository.NewJobApplicationRepository(db), jobs, scoring.New(opts...))

		summary, err := svc.RescoreJob(cmd.Context(), jobID)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	rootCmd.AddCommand(rescoreCmd)

	rescoreCmd.Flags().String("job", "", "job id")
	cobra.CheckErr(rescoreCmd.MarkFlagRequired("job"))
}
