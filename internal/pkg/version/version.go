// Package version 빌드 시점에 주입된 서버 버전 정보를 제공합니다.
//
// 버전과 커밋 해시는 링커 플래그(-ldflags -X)로 주입되며, 주입이 누락된
// 환경(go run 등)에서는 실행 파일의 디버그 메타데이터(debug.ReadBuildInfo)로
// 보완합니다. 조회는 /version 엔드포인트와 기동 로그에서 이루어집니다.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const unknown = "unknown"

// 링커 플래그로 주입되는 빌드 메타데이터.
// 애플리케이션 코드는 이 변수들 대신 Get()을 사용해야 합니다.
var (
	appVersion = "" // 예: v1.4.0-12-g3de7a1c
	gitCommit  = "" // 예: 3de7a1c
	buildDate  = "" // 예: 2026-08-30T06:00:00Z
)

// readBuildInfo 테스트에서 교체 가능하도록 변수로 선언합니다.
var readBuildInfo = debug.ReadBuildInfo

// current 프로세스 기동 시 한 번 계산되는 빌드 정보입니다. 이후 변경되지 않습니다.
var current = resolve(Info{
	Version:   strings.TrimSpace(appVersion),
	Commit:    strings.TrimSpace(gitCommit),
	BuildDate: strings.TrimSpace(buildDate),
})

// Info 서버가 보고하는 빌드 정보입니다.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// Get 서버의 빌드 정보를 반환합니다.
func Get() Info {
	return current
}

// resolve 주입된 빌드 정보의 빈 필드를 런타임/VCS 메타데이터로 채웁니다.
func resolve(info Info) Info {
	info.GoVersion = runtime.Version()
	info.OS = runtime.GOOS
	info.Arch = runtime.GOARCH

	if bi, ok := readBuildInfo(); ok {
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = setting.Value
				}
			case "vcs.time":
				if info.BuildDate == "" {
					info.BuildDate = setting.Value
				}
			}
		}
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}

	if info.Version == "" {
		info.Version = unknown
	}
	if info.Commit == "" {
		info.Commit = unknown
	}

	return info
}

// String 빌드 정보를 기동 로그용 한 줄 문자열로 요약합니다.
// 예: "v1.4.0 (commit: 3de7a1c, go: go1.24.0, platform: linux/amd64)"
func (i Info) String() string {
	var details []string

	if i.Commit != "" && i.Commit != unknown {
		commit := i.Commit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		details = append(details, "commit: "+commit)
	}
	if i.BuildDate != "" {
		details = append(details, "built: "+i.BuildDate)
	}
	if i.GoVersion != "" {
		details = append(details, "go: "+i.GoVersion)
	}
	if i.OS != "" && i.Arch != "" {
		details = append(details, fmt.Sprintf("platform: %s/%s", i.OS, i.Arch))
	}

	version := i.Version
	if version == "" {
		version = unknown
	}
	if len(details) == 0 {
		return version
	}

	return fmt.Sprintf("%s (%s)", version, strings.Join(details, ", "))
}
