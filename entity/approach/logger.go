package approach

import "github.com/sirupsen/logrus"

// log approach模块的日志记录器
var log = logrus.WithField("module", "approach")
