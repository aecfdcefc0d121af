package intersection

import "github.com/sirupsen/logrus"

// log intersection模块的日志记录器
var log = logrus.WithField("module", "intersection")
