package upload

import (
	"github.com/smallbiznis/farmstand/internal/config"
	"github.com/smallbiznis/farmstand/internal/upload/service"
	"go.uber.org/fx"
)

var Module = fx.Module("upload.service",
	fx.Provide(config.NewUploadPolicyHolder),
	fx.Provide(service.New),
)
