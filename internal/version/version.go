// 包 version：构建版本信息；编译时通过 -ldflags "-X map-api/internal/version.Commit=..." 注入
package version

var Commit = "dev"
