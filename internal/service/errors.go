package service

import "errors"

var (
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrRoomNotFound    = errors.New("room not found")
)
