// @title Job Scoring API
// @version 1.0
// @description 职位发布与候选人申请评分服务。
// @BasePath /api/v1

package main

import (
	"os"

	"job_scoring_backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
