package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/GaYoung-La/naver-shopping-trend/pkg/concurrency"
	applog "github.com/GaYoung-La/naver-shopping-trend/pkg/log"
)

// component Storage 로깅용 컴포넌트 이름
const component = "storage"

// defaultDataDirectory 스냅샷을 저장할 기본 디렉토리 이름입니다.
const defaultDataDirectory = "data"

// tempFilePattern 임시 파일 저장 시 사용되는 임시 파일의 이름 패턴입니다.
const tempFilePattern = "snapshot-*.tmp"

// backupTimestampLayout 백업 파일명에 포함되는 타임스탬프 형식입니다.
const backupTimestampLayout = "20060102_150405"

// fileSnapshotStore 파일 시스템을 기반으로 스냅샷을 저장하는 저장소 구현체입니다.
//
// [파일 구조]
//   - {name}.json: 스냅샷이 JSON 형식으로 저장됩니다.
//   - {name}.backup_YYYYMMDD_HHMMSS.json: 덮어쓰기 직전의 이전 스냅샷 백업입니다.
//   - snapshot-*.tmp: 파일 저장 중 생성되는 임시 파일입니다.
type fileSnapshotStore struct {
	baseDir string

	// backupRetention 스냅샷별로 보관할 백업 파일의 최대 개수입니다. (0: 백업 안 함)
	backupRetention int

	// locks 동일한 파일에 대한 동시 쓰기를 방지하기 위한 파일별 뮤텍스입니다.
	// 파일 경로를 키로 사용하여 각 파일마다 독립적인 락을 관리합니다.
	locks *concurrency.KeyedMutex
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ SnapshotStore = (*fileSnapshotStore)(nil)

// NewFileSnapshotStore 파일 시스템 기반의 스냅샷 저장소를 생성합니다.
//
// 초기화 과정에서 저장 디렉토리를 생성하고, 이전 실행에서 남은 임시 파일을 정리합니다.
//
// 매개변수:
//   - dir: 스냅샷 파일을 저장할 디렉토리 경로
//     빈 문자열("")을 전달하면 기본 디렉토리("data")를 사용합니다.
//     상대 경로를 전달하면 절대 경로로 자동 변환됩니다.
//   - backupRetention: 스냅샷별로 보관할 백업 파일의 최대 개수 (0: 백업 안 함, 음수는 0으로 보정)
func NewFileSnapshotStore(dir string, backupRetention int) (SnapshotStore, error) {
	if dir == "" {
		dir = defaultDataDirectory
	}
	if backupRetention < 0 {
		backupRetention = 0
	}

	// 상대 경로를 절대 경로로 변환하여 경로 일관성을 보장합니다.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, NewErrAbsPathConversionFailed(err)
	}

	// 저장소 초기화 시점에 디렉토리 생성 및 접근 권한을 미리 확인하여
	// 나중에 Save 작업 시 발생할 수 있는 에러를 조기에 발견합니다.
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, NewErrDirectoryAccessFailed(err, absDir)
	}

	s := &fileSnapshotStore{
		baseDir:         absDir,
		backupRetention: backupRetention,

		locks: concurrency.NewKeyedMutex(),
	}

	// 백그라운드에서 이전 실행 시 남은 오래된 임시 파일을 정리합니다.
	// 서버 시작 속도에 영향을 주지 않도록 비동기로 수행합니다.
	go func() {
		defer func() {
			if r := recover(); r != nil {
				applog.WithComponentAndFields(component, applog.Fields{
					"baseDir": s.baseDir,
					"panic":   r,
				}).Error("임시 파일 정리 중단: 백그라운드 작업 패닉 발생")
			}
		}()

		s.cleanupStaleTempFiles()
	}()

	return s, nil
}

// cleanupStaleTempFiles 이전 실행에서 남겨진 오래된 임시 파일을 정리합니다.
// 비정상 종료(크래시, 강제 종료 등)로 인해 남겨진 임시 파일들이 대상입니다.
func (s *fileSnapshotStore) cleanupStaleTempFiles() {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"dir":   s.baseDir,
			"error": err,
		}).Warn("임시 파일 정리 중단: 디렉토리 조회 실패")

		return
	}

	// 최근 1시간 이내에 수정된 파일은 다른 프로세스가 사용 중일 수 있으므로 삭제하지 않습니다.
	threshold := time.Now().Add(-1 * time.Hour)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		matched, _ := filepath.Match(tempFilePattern, name)
		if !matched {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().After(threshold) {
			continue
		}

		fullPath := filepath.Join(s.baseDir, name)
		if err := os.Remove(fullPath); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"file":  fullPath,
				"error": err,
			}).Warn("임시 파일 삭제 실패: 파일 제거 오류")
		} else {
			applog.WithComponentAndFields(component, applog.Fields{
				"file": fullPath,
			}).Info("임시 파일 삭제 완료: 이전 실행 잔존 파일 정리")
		}
	}
}

// Load 저장된 스냅샷을 파일에서 읽어옵니다.
//
// 쓰기 중인 파일을 읽어 부분적으로 쓰여진 데이터를 읽는 문제를 예방하기 위해
// 읽기 작업에도 Lock을 적용합니다. Lock 보유 시간을 최소화하기 위해
// 파일 읽기(I/O)만 Lock 내부에서 수행하고, JSON 역직렬화는 Lock 외부에서 수행합니다.
func (s *fileSnapshotStore) Load(name string, v any) error {
	// v가 nil이 아닌 포인터인지 검증하여 잘못된 호출을 즉시 차단합니다.
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrLoadRequiresPointer
	}

	filename, err := s.resolveSafePath(name)
	if err != nil {
		return err
	}

	// Windows 등 대소문자를 구분하지 않는 파일 시스템을 위해 Lock 키는 소문자로 정규화합니다.
	var data []byte
	err = s.locks.WithLock(strings.ToLower(filename), func() error {
		var readErr error
		data, readErr = os.ReadFile(filename)
		if readErr != nil {
			// 파일이 아직 생성되지 않은 경우 (첫 실행 등)
			if os.IsNotExist(readErr) {
				return ErrSnapshotNotFound
			}

			return NewErrSnapshotReadFailed(readErr)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		// 손상된 파일은 Corrupted 에러로 보고하여 호출자가 묵시적으로 재생성하지 않도록 합니다.
		return NewErrSnapshotCorrupted(err, filepath.Base(filename))
	}

	return nil
}

// Save 스냅샷을 파일에 저장합니다.
//
// [저장 전략]
//  1. 기존 파일이 있으면 타임스탬프 백업 생성 및 오래된 백업 정리
//  2. 임시 파일에 먼저 쓰기 → 디스크 동기화(fsync) → 원자적 이름 변경(rename)
//
// 같은 파일에 대한 동시 쓰기를 방지하기 위해 파일별 뮤텍스(KeyedMutex)를 사용합니다.
func (s *fileSnapshotStore) Save(name string, v any) error {
	filename, err := s.resolveSafePath(name)
	if err != nil {
		return err
	}

	// JSON 직렬화는 Lock 획득 전에 수행합니다.
	// 쇼핑 키워드에 포함될 수 있는 &, <, > 문자가 이스케이프되지 않도록 인코더를 직접 구성합니다.
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return NewErrJSONMarshalFailed(err)
	}

	// Windows 등 대소문자를 구분하지 않는 파일 시스템을 위해 Lock 키는 소문자로 정규화합니다.
	return s.locks.WithLock(strings.ToLower(filename), func() error {
		if err := s.backupExisting(filename); err != nil {
			return err
		}

		return s.writeAtomic(filename, buf.Bytes())
	})
}

// resolveSafePath 스냅샷 이름을 사용하여 안전하게 검증된 파일 경로를 생성합니다.
//
// 생성된 경로가 허용된 기본 디렉토리를 벗어나지 않는지 엄격하게 검증하여
// Path Traversal 공격을 방어합니다.
func (s *fileSnapshotStore) resolveSafePath(name string) (string, error) {
	filename := generateFilename(name)

	basePath := s.baseDir

	fullPath := filepath.Join(basePath, filename)
	cleanPath := filepath.Clean(fullPath)

	// filepath.Rel로 BaseDir 기준의 상대 경로를 계산하여 검증합니다.
	// 단순 접두사 비교 취약점(Sibling Directory Attack)을 피하고,
	// 경로 구분자 차이와 관계없이 일관된 검증을 보장합니다.
	rel, err := filepath.Rel(basePath, cleanPath)
	if err != nil {
		return "", NewErrPathResolutionFailed(err)
	}

	// 상대 경로가 ".."으로 시작하면 상위 디렉토리로 이탈한 것입니다.
	if strings.HasPrefix(rel, "..") {
		applog.WithComponentAndFields(component, applog.Fields{
			"name":     name,
			"filename": filename,
			"base_dir": s.baseDir,
			"path":     cleanPath,
			"rel_path": rel,
		}).Error("파일 경로 생성 차단: 경로 이탈 시도 감지")

		return "", ErrPathTraversalDetected
	}

	return cleanPath, nil
}

// backupExisting 기존 스냅샷 파일을 타임스탬프 백업으로 복사하고, 보관 개수를 초과한
// 오래된 백업을 정리합니다. 기존 파일이 없거나 백업이 비활성화(backupRetention 0)된
// 경우에는 아무 작업도 하지 않습니다.
func (s *fileSnapshotStore) backupExisting(filename string) error {
	if s.backupRetention == 0 {
		return nil
	}

	if _, err := os.Stat(filename); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return NewErrBackupFailed(err)
	}

	// "category-keywords.json" → "category-keywords.backup_20260830_060000.json"
	base := strings.TrimSuffix(filepath.Base(filename), ".json")
	backupName := fmt.Sprintf("%s.backup_%s.json", base, time.Now().Format(backupTimestampLayout))
	backupPath := filepath.Join(filepath.Dir(filename), backupName)

	if err := copyFile(filename, backupPath); err != nil {
		return NewErrBackupFailed(err)
	}

	s.pruneOldBackups(base)

	return nil
}

// pruneOldBackups 보관 개수를 초과한 오래된 백업 파일을 삭제합니다.
// 백업 파일명에 포함된 타임스탬프가 정렬 순서를 결정합니다.
// 정리 실패는 저장 자체의 실패가 아니므로 경고 로그만 남깁니다.
func (s *fileSnapshotStore) pruneOldBackups(base string) {
	pattern := filepath.Join(s.baseDir, base+".backup_*.json")
	backups, err := filepath.Glob(pattern)
	if err != nil || len(backups) <= s.backupRetention {
		return
	}

	// 파일명의 타임스탬프 기준 오름차순 정렬 후 앞쪽(오래된 것)부터 삭제
	slices.Sort(backups)

	for _, old := range backups[:len(backups)-s.backupRetention] {
		if err := os.Remove(old); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"file":  old,
				"error": err,
			}).Warn("오래된 백업 파일 삭제 실패")
		}
	}
}

// writeAtomic 데이터를 파일에 원자적으로 저장합니다.
//
// 파일 저장 중 시스템 장애(전원 차단, 프로세스 종료)가 발생해도 데이터 무결성을
// 보장하기 위해 "임시 파일 쓰기 → 동기화 → 원자적 이름 변경" 3단계 전략을 사용합니다.
func (s *fileSnapshotStore) writeAtomic(filename string, data []byte) error {
	dir := filepath.Dir(filename)

	// 같은 디렉토리 내에 생성해야 rename이 원자적으로 동작합니다.
	tmpFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return NewErrTempFileCreationFailed(err)
	}
	tmpPath := tmpFile.Name()

	// Windows에서는 파일이 열려있는 상태에서는 삭제가 불가능하므로
	// '파일 닫기(Close)'가 '파일 삭제(Remove)'보다 먼저 실행되어야 합니다.
	defer os.Remove(tmpPath)
	defer tmpFile.Close()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return NewErrFileWriteFailed(err)
	}

	// 운영체제 버퍼 캐시에 있는 데이터를 물리적 디스크에 강제로 기록합니다.
	// 이 단계를 생략하면 전원 차단 시 데이터가 유실될 수 있습니다.
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return NewErrFileSyncFailed(err)
	}

	// Windows에서는 파일이 열려 있으면 rename이 실패하므로 반드시 닫아야 합니다.
	if err := tmpFile.Close(); err != nil {
		return NewErrFileCloseFailed(err)
	}

	if err := s.renameWithRetry(tmpPath, filename); err != nil {
		return NewErrFileRenameFailed(err)
	}

	// 파일명 변경 사항을 디스크에 확실히 기록하기 위해 부모 디렉토리를 fsync합니다.
	// 실패해도 치명적이지 않으므로 에러를 무시합니다.
	if dirFile, err := os.Open(dir); err == nil {
		_ = dirFile.Sync()
		dirFile.Close()
	}

	return nil
}

// renameWithRetry 파일 이름 변경을 재시도 로직과 함께 수행합니다.
//
// Windows 개발 환경에서는 바이러스 백신이나 파일 인덱서가 파일을 일시적으로 잠글 수
// 있으므로, 짧은 대기 후 재시도하여 일시적인 잠금 문제를 우회합니다.
func (s *fileSnapshotStore) renameWithRetry(oldPath, newPath string) error {
	const maxRetries = 5
	const retryDelay = 10 * time.Millisecond

	var lastErr error
	for range maxRetries {
		err := os.Rename(oldPath, newPath)
		if err == nil {
			return nil
		}

		lastErr = err
		time.Sleep(retryDelay)
	}

	return lastErr
}

// copyFile src 파일을 dst로 복사합니다.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	return out.Sync()
}
