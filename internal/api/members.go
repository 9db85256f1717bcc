package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"movieclub-backend/internal/domain"
)

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.members.Signup(r.Context(), req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{"result": "ok"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	member, err := h.members.Login(r.Context(), req.ID, req.Password)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	token, err := h.sessions.Issue(member.ID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.setSessionCookie(w, token, 24*60*60)

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"result": "ok",
		"user":   member,
		"token":  token,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setSessionCookie(w, "", -1)
	h.respondJSON(w, http.StatusOK, map[string]string{"result": "logout"})
}

func (h *Handler) CheckSession(w http.ResponseWriter, r *http.Request) {
	memberID := h.requireSession(w, r)
	if memberID == "" {
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"user": memberID})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	memberID := h.requireSession(w, r)
	if memberID == "" {
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"user": memberID})
}

func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.members.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, member)
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.List(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if members == nil {
		members = []domain.MemberResponse{}
	}
	h.respondJSON(w, http.StatusOK, members)
}

// UpdateMember changes the logged-in member's own profile.
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	memberID := h.requireSession(w, r)
	if memberID == "" {
		return
	}

	var req domain.MemberUpdateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	member, err := h.members.Update(r.Context(), memberID, req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, member)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	memberID := h.requireSession(w, r)
	if memberID == "" {
		return
	}

	var req domain.PasswordChangeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.members.ChangePassword(r.Context(), memberID, req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{
		"result":  "ok",
		"message": "비밀번호가 성공적으로 변경되었습니다.",
	})
}

// DeleteMember removes an account after password confirmation. The session
// cookie is cleared so the deleted identity cannot linger.
func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req domain.DeleteAccountRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.members.DeleteAccount(r.Context(), id, req.Password); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.setSessionCookie(w, "", -1)
	h.log.Info("account deleted", zap.String("member_id", id))
	h.respondJSON(w, http.StatusOK, map[string]string{"result": "deleted"})
}

func (h *Handler) IDCheck(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.respondError(w, r, http.StatusBadRequest, "MISSING_PARAMETER", "필수 파라미터 누락: id")
		return
	}

	available, err := h.members.IDAvailable(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	result := "ok"
	if !available {
		result = "no"
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"result": result})
}
