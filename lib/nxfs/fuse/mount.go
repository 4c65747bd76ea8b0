// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fuse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/bureau-foundation/nxfs/lib/nx"
	"github.com/bureau-foundation/nxfs/lib/nxfs"
)

// Default kernel cache lifetimes. Content never changes while mounted,
// so these only bound how long the kernel holds entries it may never
// need again.
const (
	DefaultEntryTimeout    = 1 * time.Second
	DefaultAttrTimeout     = 1 * time.Second
	DefaultNegativeTimeout = 100 * time.Millisecond
)

// Options configures the FUSE mount.
type Options struct {
	// Mountpoint is the directory where the filesystem is mounted.
	// It is created if it does not exist.
	Mountpoint string

	// Engine answers every filesystem query. Required.
	Engine *nxfs.Engine

	// SingleThreaded serves one kernel request at a time.
	SingleThreaded bool

	// AllowOther permits other users (including root) to access
	// the mount. Requires user_allow_other in /etc/fuse.conf.
	AllowOther bool

	// Debug logs every FUSE request and reply to stderr.
	Debug bool

	// FsName is the source shown in /proc/mounts. Defaults to "nxfs".
	FsName string

	// Kernel cache lifetimes. Zero selects the package defaults.
	EntryTimeout    time.Duration
	AttrTimeout     time.Duration
	NegativeTimeout time.Duration

	// Logger receives diagnostic messages. If nil, errors go to
	// stderr and everything else is dropped.
	Logger *slog.Logger
}

// Mount mounts the engine at the configured mountpoint and returns
// once the kernel has acknowledged the mount. The caller must call
// Unmount on the returned Server when done.
func Mount(options Options) (*fuse.Server, error) {
	if options.Mountpoint == "" {
		return nil, fmt.Errorf("mountpoint is required")
	}
	if options.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}

	if options.FsName == "" {
		options.FsName = "nxfs"
	}
	if options.EntryTimeout == 0 {
		options.EntryTimeout = DefaultEntryTimeout
	}
	if options.AttrTimeout == 0 {
		options.AttrTimeout = DefaultAttrTimeout
	}
	if options.NegativeTimeout == 0 {
		options.NegativeTimeout = DefaultNegativeTimeout
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
	}

	if err := os.MkdirAll(options.Mountpoint, 0o755); err != nil {
		return nil, fmt.Errorf("creating mountpoint %s: %w", options.Mountpoint, err)
	}

	rootNode, err := options.Engine.Resolve("/")
	if err != nil {
		return nil, fmt.Errorf("resolving container root: %w", err)
	}
	root := &dirNode{options: &options, path: "/", node: rootNode}

	server, err := gofuse.Mount(options.Mountpoint, root, &gofuse.Options{
		EntryTimeout:    &options.EntryTimeout,
		AttrTimeout:     &options.AttrTimeout,
		NegativeTimeout: &options.NegativeTimeout,
		MountOptions: fuse.MountOptions{
			FsName:         options.FsName,
			Name:           "nxfs",
			AllowOther:     options.AllowOther,
			SingleThreaded: options.SingleThreaded,
			Debug:          options.Debug,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mounting FUSE filesystem at %s: %w", options.Mountpoint, err)
	}

	options.Logger.Info("nx filesystem mounted",
		"mountpoint", options.Mountpoint,
		"single_threaded", options.SingleThreaded,
	)
	return server, nil
}

// dirNode is a directory: the root or any node of type none.
type dirNode struct {
	gofuse.Inode
	options *Options
	path    string
	node    nx.Node
}

var _ gofuse.InodeEmbedder = (*dirNode)(nil)
var _ gofuse.NodeGetattrer = (*dirNode)(nil)
var _ gofuse.NodeLookuper = (*dirNode)(nil)
var _ gofuse.NodeReaddirer = (*dirNode)(nil)

func (d *dirNode) Getattr(ctx context.Context, f gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	return d.options.getattr(d.path, d.node, &out.Attr)
}

func (d *dirNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*gofuse.Inode, syscall.Errno) {
	childPath := childPath(d.path, name)

	node, err := d.options.Engine.Resolve(childPath)
	if err != nil {
		return nil, toErrno(err)
	}
	attributes, err := d.options.Engine.Attributes(node)
	if err != nil {
		d.options.Logger.Warn("hiding entry with undecodable content",
			"path", childPath,
			"error", err,
		)
		return nil, syscall.ENOENT
	}
	fillAttr(attributes, &out.Attr)

	stable := gofuse.StableAttr{Ino: inodeNumber(node)}
	var embedder gofuse.InodeEmbedder
	if attributes.Kind == nxfs.KindDirectory {
		stable.Mode = syscall.S_IFDIR
		embedder = &dirNode{options: d.options, path: childPath, node: node}
	} else {
		stable.Mode = syscall.S_IFREG
		embedder = &fileNode{options: d.options, path: childPath, node: node}
	}
	return d.NewInode(ctx, embedder, stable), 0
}

func (d *dirNode) Readdir(ctx context.Context) (gofuse.DirStream, syscall.Errno) {
	listing := d.options.Engine.List(d.node)

	parentIno := d.StableAttr().Ino
	if _, parent := d.Parent(); parent != nil {
		parentIno = parent.StableAttr().Ino
	}

	entries := make([]fuse.DirEntry, 0, len(listing))
	for index, entry := range listing {
		dirEntry := fuse.DirEntry{
			Name: entry.Name,
			Mode: syscall.S_IFREG,
			Ino:  inodeNumber(entry.Node),
		}
		if entry.Kind == nxfs.KindDirectory {
			dirEntry.Mode = syscall.S_IFDIR
		}
		// List puts "." then ".." first.
		if index == 1 {
			dirEntry.Ino = parentIno
		}
		entries = append(entries, dirEntry)
	}
	return gofuse.NewListDirStream(entries), 0
}

// fileNode is any non-directory node.
type fileNode struct {
	gofuse.Inode
	options *Options
	path    string
	node    nx.Node
}

var _ gofuse.InodeEmbedder = (*fileNode)(nil)
var _ gofuse.NodeGetattrer = (*fileNode)(nil)
var _ gofuse.NodeOpener = (*fileNode)(nil)
var _ gofuse.NodeReader = (*fileNode)(nil)

func (f *fileNode) Getattr(ctx context.Context, fh gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	return f.options.getattr(f.path, f.node, &out.Attr)
}

func (f *fileNode) Open(ctx context.Context, flags uint32) (gofuse.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR|syscall.O_TRUNC) != 0 {
		return nil, 0, syscall.EROFS
	}
	// Content is immutable for the life of the mount.
	return nil, fuse.FOPEN_KEEP_CACHE, 0
}

func (f *fileNode) Read(ctx context.Context, fh gofuse.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	if off < 0 {
		return nil, syscall.EINVAL
	}
	n := f.options.Engine.ReadWindow(f.node, dest, uint64(off))
	return fuse.ReadResultData(dest[:n]), 0
}

func (o *Options) getattr(path string, node nx.Node, out *fuse.Attr) syscall.Errno {
	attributes, err := o.Engine.Attributes(node)
	if err != nil {
		o.Logger.Warn("getattr failed",
			"path", path,
			"error", err,
		)
		return syscall.ENOENT
	}
	fillAttr(attributes, out)
	return 0
}

// fillAttr converts engine attributes to their FUSE form.
func fillAttr(attributes nxfs.Attributes, out *fuse.Attr) {
	mode := uint32(syscall.S_IFREG)
	if attributes.Kind == nxfs.KindDirectory {
		mode = syscall.S_IFDIR
	}
	out.Ino = uint64(attributes.ID) + 1
	out.Mode = mode | uint32(attributes.Mode.Perm())
	out.Size = attributes.Size
	out.Blocks = attributes.Blocks
	out.Blksize = 4096
	out.Nlink = attributes.Nlink
	out.Owner = fuse.Owner{Uid: attributes.UID, Gid: attributes.GID}

	atime, mtime := attributes.Atime, attributes.Mtime
	out.SetTimes(&atime, &mtime, &mtime)
}

func inodeNumber(node nx.Node) uint64 {
	return uint64(node.ID) + 1
}

// childPath joins without cleaning, so stored names such as ".." are
// looked up literally.
func childPath(parent, name string) string {
	return strings.TrimSuffix(parent, "/") + "/" + name
}

func toErrno(err error) syscall.Errno {
	switch {
	case errors.Is(err, nxfs.ErrNotFound):
		return syscall.ENOENT
	case errors.Is(err, nxfs.ErrNotDirectory):
		return syscall.ENOTDIR
	default:
		return syscall.EIO
	}
}
