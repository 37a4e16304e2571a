/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

type lgr struct {
	log *logrus.Logger
}

func (l *lgr) SetLevel(lvl Level) {
	l.log.SetLevel(lvl.Logrus())
}

func (l *lgr) GetLevel() Level {
	switch l.log.GetLevel() {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return ErrorLevel
	case logrus.WarnLevel:
		return WarnLevel
	case logrus.DebugLevel, logrus.TraceLevel:
		return DebugLevel
	}

	return InfoLevel
}

func (l *lgr) SetOutput(out io.Writer) {
	l.log.SetOutput(out)
}

func (l *lgr) Debug(msg string, fields map[string]interface{}) {
	l.log.WithFields(fields).Debug(msg)
}

func (l *lgr) Info(msg string, fields map[string]interface{}) {
	l.log.WithFields(fields).Info(msg)
}

func (l *lgr) Warning(msg string, fields map[string]interface{}) {
	l.log.WithFields(fields).Warn(msg)
}

func (l *lgr) Error(msg string, fields map[string]interface{}) {
	l.log.WithFields(fields).Error(msg)
}

func (l *lgr) Entry() *logrus.Entry {
	return logrus.NewEntry(l.log)
}
