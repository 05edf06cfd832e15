// Package download saves the finished files of backend download sessions to
// the local download directory. It manages save task lifecycle, a parallelism
// limit, progress propagation to the UI and the local download history.
package download
